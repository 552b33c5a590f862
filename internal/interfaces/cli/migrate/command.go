package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumishop/shopadmin/internal/infrastructure/database"
	"github.com/lumishop/shopadmin/internal/infrastructure/migration"
	"github.com/lumishop/shopadmin/internal/interfaces/cli/bootstrap"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

var (
	opts         bootstrap.Options
	strategyName string
	name         string
	steps        int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	opts.Bind(cmd)
	cmd.PersistentFlags().StringVarP(&strategyName, "strategy", "s", migration.StrategyGoose, "Migration strategy (goose, golang-migrate, auto)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new goose SQL migration file for the configured database driver.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initEnv() (*bootstrap.Env, migration.Strategy, error) {
	env, err := bootstrap.LoadWithDatabase(opts)
	if err != nil {
		return nil, nil, err
	}

	strategy, err := migration.NewStrategy(strategyName, database.DriverName(&env.Config.Database), env.Log)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return env, strategy, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	env, strategy, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log := env.Log
	log.Infow("running up migrations", "environment", env.Name, "strategy", strategy.Name())

	if err := strategy.Migrate(database.Get()); err != nil {
		log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	env, strategy, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log := env.Log
	log.Infow("running down migrations", "environment", env.Name, "steps", steps)

	if err := strategy.Down(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, strategy, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	version, err := strategy.Version(database.Get())
	if err != nil {
		env.Log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env.Name)
	fmt.Fprintf(out, "  Strategy:        %s\n", strategy.Name())
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if goose, ok := strategy.(*migration.GooseStrategy); ok {
		if err := goose.Status(database.Get()); err != nil {
			env.Log.Errorw("failed to get detailed status", "error", err)
			return fmt.Errorf("failed to get detailed status: %w", err)
		}
	}

	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	env, err := bootstrap.Load(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()

	dir := migration.SourceDir + "/" + database.DriverName(&env.Config.Database)
	env.Log.Infow("creating new migration", "name", name, "dir", dir)

	if err := migration.Create(dir, name); err != nil {
		env.Log.Errorw("failed to create migration", "error", err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created in %s\n", name, dir)
	return nil
}
