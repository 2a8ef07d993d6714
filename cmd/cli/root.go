package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	api     string
	key     string
	timeout time.Duration
	json    bool
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "statusforge",
		Short:         "Manage monitors and results on a statusforge API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.api, "api", envOr("API_BASE", "http://localhost:8080"), "API base URL")
	root.PersistentFlags().StringVar(&opts.key, "key", os.Getenv("API_KEY"), "API key (sent as X-API-Key)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "request timeout")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print raw JSON instead of a table")

	root.AddCommand(
		newMonitorsCmd(opts),
		newCheckCmd(opts),
		newResultsCmd(opts),
		newMigrateCmd(),
	)
	return root
}
