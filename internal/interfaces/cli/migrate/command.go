package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildhomemart/homemart/internal/infrastructure/migration"
	"github.com/buildhomemart/homemart/internal/interfaces/cli/bootstrap"
	"github.com/buildhomemart/homemart/internal/shared/constants"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

var (
	env   string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect the embedded database migrations.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func initEnv(cmd *cobra.Command) (*bootstrap.Env, *migration.GooseMigrator, error) {
	app, err := bootstrap.Open(cmd.Context(), bootstrap.ResolveEnv(env), false)
	if err != nil {
		return nil, nil, err
	}
	return app, migration.NewGooseMigrator(app.Log), nil
}

func runUp(cmd *cobra.Command, args []string) error {
	app, migrator, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer app.Close()

	app.Log.Infow("running up migrations", "environment", env)

	if err := migrator.Up(app.DB); err != nil {
		app.Log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	app.Log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", steps)
	}

	app, migrator, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer app.Close()

	app.Log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := migrator.Down(app.DB, steps); err != nil {
		app.Log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	app.Log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, migrator, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer app.Close()

	version, err := migrator.Version(app.DB)
	if err != nil {
		app.Log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nMigration Status:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  Environment:     %s\n", env)
	fmt.Fprintf(cmd.OutOrStdout(), "  Current Version: %d\n", version)

	if err := migrator.Status(app.DB); err != nil {
		app.Log.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}
	return nil
}
