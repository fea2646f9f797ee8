package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/irsalhamdi/learner-portal/core/claims"
	"github.com/irsalhamdi/learner-portal/core/program"
)

var programCmd = &cobra.Command{
	Use:   "program",
	Short: "Program commands",
}

var programInspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Show a program page, or the learner's drawer when a session is given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx, cl := client(cmd)

		if !claims.IsAuthenticated(ctx) {
			p, err := program.Fetch(ctx, cl, id)
			if err != nil {
				return err
			}
			return printJSON(cmd, program.NewDetail(&p, time.Now(), cl.BaseURL()))
		}

		enrollments, err := program.FetchEnrollments(ctx, cl)
		if err != nil {
			return err
		}
		for i := range enrollments {
			if enrollments[i].Program.ID == id {
				return printJSON(cmd, program.NewDrawer(&enrollments[i]))
			}
		}
		return fmt.Errorf("learner is not enrolled in program %d", id)
	},
}

func init() {
	programCmd.AddCommand(programInspectCmd)
}
