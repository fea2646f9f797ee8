package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/irsalhamdi/learner-portal/core/course"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Course commands",
}

var courseInspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Show the relevant run and enrollment box for a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx, cl := client(cmd)

		c, err := course.Fetch(ctx, cl, id)
		if err != nil {
			return err
		}

		var override *course.Run
		if runID, _ := cmd.Flags().GetInt("run"); runID != 0 {
			override = c.FindRun(runID)
			if override == nil {
				cmd.PrintErrf("run %d is not part of course %d, ignoring\n", runID, id)
			}
		}

		return printJSON(cmd, course.NewInfoBox(&c, override, time.Now(), cl.BaseURL()))
	},
}

func init() {
	courseInspectCmd.Flags().Int("run", 0, "Treat this run as the learner's selection")
	courseCmd.AddCommand(courseInspectCmd)
}
