package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexwatch/lexwatch/internal/config"
	"github.com/lexwatch/lexwatch/internal/infrastructure/database/postgres"
)

// newMigrateCmd manages the database schema.  Unlike the other commands it
// does not go through the API server: it connects to the database directly
// using the configuration file.
func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(newMigrateUpCmd(), newMigrateDownCmd(), newMigrateStatusCmd())
	return cmd
}

// migrateTarget loads the configuration and resolves the database URL and
// migration source path.
func migrateTarget(cmd *cobra.Command) (dbURL, migrationsPath string, err error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return "", "", err
	}
	var cfg *config.Config
	if cliCtx.Options.ConfigPath != "" {
		cfg, err = config.Load(cliCtx.Options.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return "", "", fmt.Errorf("configuration load failed: %w", err)
	}
	return postgres.BuildDSN(cfg.Database), cfg.Database.MigrationPath, nil
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbURL, path, err := migrateTarget(cmd)
			if err != nil {
				return err
			}
			if err := postgres.RunMigrations(dbURL, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}

func newMigrateDownCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbURL, path, err := migrateTarget(cmd)
			if err != nil {
				return err
			}
			if err := postgres.RollbackMigration(dbURL, path, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s).\n", steps)
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	return cmd
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			dbURL, path, err := migrateTarget(cmd)
			if err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationStatus(dbURL, path)
			if err != nil {
				return err
			}
			status := struct {
				Version uint `json:"version"`
				Dirty   bool `json:"dirty"`
			}{Version: version, Dirty: dirty}
			return printResult(cmd, cliCtx, status, func() error {
				fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d (dirty: %v)\n", version, dirty)
				return nil
			})
		},
	}
}
