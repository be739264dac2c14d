package importdb

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hopperkey/phatdev/internal/infrastructure/database"
	"github.com/hopperkey/phatdev/internal/infrastructure/filestore"
	"github.com/hopperkey/phatdev/internal/infrastructure/migration"
	"github.com/hopperkey/phatdev/internal/infrastructure/repository"
	"github.com/hopperkey/phatdev/internal/interfaces/cli"
	shareddb "github.com/hopperkey/phatdev/internal/shared/db"
)

var (
	env        string
	configPath string
	file       string
	migrate    bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON database file into SQL storage",
		Long:  `Copy applications, license keys and roles from a file-backed database into the configured SQL database.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON database file to import (default: storage.file_path)")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply pending migrations before importing")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := cli.Setup(env, configPath)
	if err != nil {
		return err
	}

	path := file
	if path == "" {
		path = cfg.Storage.FilePath
	}
	store, err := filestore.Open(path, log.Named("filestore"))
	if err != nil {
		return err
	}

	closeDB, err := cli.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDB()
	db := database.Get()

	if migrate {
		strategy, err := migration.NewGooseStrategy(cfg.Database.Driver, log)
		if err != nil {
			return err
		}
		if err := strategy.Migrate(db); err != nil {
			return err
		}
	}

	src := Repositories{
		Keys:        filestore.NewLicenseKeyStore(store),
		Apps:        filestore.NewApplicationStore(store),
		Permissions: filestore.NewPermissionStore(store),
	}
	dst := Repositories{
		Keys:        repository.NewLicenseKeyRepository(db, log),
		Apps:        repository.NewApplicationRepository(db, log),
		Permissions: repository.NewPermissionRepository(db, log),
	}

	report, err := NewImporter(src, dst, log.Named("import")).
		WithTransaction(shareddb.NewTransactionManager(db)).
		Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d applications, %d keys, %d roles (%d skipped) from %s\n",
		report.Apps, report.Keys, report.Permissions, report.Skipped, path)
	return nil
}
