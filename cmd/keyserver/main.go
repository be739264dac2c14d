package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hopperkey/phatdev/internal/interfaces/cli/importdb"
	"github.com/hopperkey/phatdev/internal/interfaces/cli/migrate"
	"github.com/hopperkey/phatdev/internal/interfaces/cli/server"
	"github.com/hopperkey/phatdev/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "keyserver",
		Short:   "License key registry server",
		Long:    `keyserver issues license keys, binds them to devices and answers validation requests over a single JSON endpoint.`,
		Version: version.Current(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		importdb.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
