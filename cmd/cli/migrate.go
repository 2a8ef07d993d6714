package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hamed0406/statusforge/internal/repo/postgres"
)

func newMigrateCmd() *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the Postgres schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return fmt.Errorf("database URL required: set --database-url or DATABASE_URL")
			}
			switch args[0] {
			case "up":
				if err := postgres.Migrate(dsn); err != nil {
					return err
				}
			case "down":
				if err := postgres.MigrateDown(dsn); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown direction %q (want up or down)", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")
	return cmd
}
