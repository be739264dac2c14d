package migrate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hopperkey/phatdev/internal/infrastructure/config"
	"github.com/hopperkey/phatdev/internal/infrastructure/database"
	"github.com/hopperkey/phatdev/internal/infrastructure/migration"
	"github.com/hopperkey/phatdev/internal/interfaces/cli"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

var (
	env        string
	configPath string
	name       string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage the SQL schema: apply or roll back migrations, check status, and create new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

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

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new SQL migration for the configured database driver. Run it from the repository root.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initEnv(connect bool) (*config.Config, *migration.GooseStrategy, logger.Interface, func(), error) {
	cfg, log, err := cli.Setup(env, configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	strategy, err := migration.NewGooseStrategy(cfg.Database.Driver, log)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	closeDB := func() {}
	if connect {
		closeDB, err = cli.OpenDatabase(cfg)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}

	return cfg, strategy, log, closeDB, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, strategy, log, closeDB, err := initEnv(true)
	if err != nil {
		return err
	}
	defer closeDB()

	log.Infow("running up migrations", "environment", env, "driver", cfg.Database.Driver)

	if err := strategy.Migrate(database.Get()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	_, strategy, log, closeDB, err := initEnv(true)
	if err != nil {
		return err
	}
	defer closeDB()

	log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := strategy.MigrateDown(database.Get(), steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, strategy, _, closeDB, err := initEnv(true)
	if err != nil {
		return err
	}
	defer closeDB()

	version, err := strategy.GetVersion(database.Get())
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	scripts, err := strategy.Scripts()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Driver:          %s\n", cfg.Database.Driver)
	fmt.Fprintf(out, "  Current Version: %d\n", version)
	fmt.Fprintf(out, "  Scripts:         %d\n", len(scripts))

	return strategy.Status(database.Get())
}

func runCreate(cmd *cobra.Command, args []string) error {
	_, strategy, log, _, err := initEnv(false)
	if err != nil {
		return err
	}

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	if err := strategy.Create(root, name); err != nil {
		return err
	}

	log.Infow("migration created", "name", name)
	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created\n", name)
	return nil
}
