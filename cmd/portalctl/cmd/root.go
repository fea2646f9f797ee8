// Package cmd holds the portalctl commands, which query the upstream the
// same way the portal does and print what a learner would be shown.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/irsalhamdi/learner-portal/core/claims"
	"github.com/irsalhamdi/learner-portal/upstream"
)

var rootCmd = &cobra.Command{
	Use:          "portalctl",
	Short:        "Inspect enrollment state as the learner portal computes it",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("upstream", envOr("PORTAL_UPSTREAM_BASE_URL", "http://localhost:8013"), "Upstream base URL")
	rootCmd.PersistentFlags().String("session", "", "Upstream session cookie to act as a learner")
	rootCmd.PersistentFlags().Duration("timeout", 10*time.Second, "Upstream request timeout")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log upstream requests")

	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(programCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// client builds an upstream client from the persistent flags and a context
// carrying the learner's session, if one was given.
func client(cmd *cobra.Command) (context.Context, *upstream.Client) {
	base, _ := cmd.Flags().GetString("upstream")
	session, _ := cmd.Flags().GetString("session")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	verbose, _ := cmd.Flags().GetBool("verbose")

	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cl := upstream.New(upstream.Config{
		BaseURL:       base,
		Timeout:       timeout,
		SessionCookie: "sessionid",
		CSRFCookie:    "csrftoken",
		Log:           log,
	})

	ctx := claims.Set(cmd.Context(), claims.Claims{SessionID: session})
	return ctx, cl
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
