package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lumishop/shopadmin/internal/interfaces/cli/migrate"
	"github.com/lumishop/shopadmin/internal/interfaces/cli/report"
	"github.com/lumishop/shopadmin/internal/interfaces/cli/server"
	"github.com/lumishop/shopadmin/internal/interfaces/cli/token"
	"github.com/lumishop/shopadmin/internal/interfaces/cli/user"
	"github.com/lumishop/shopadmin/internal/interfaces/cli/version"
	"github.com/lumishop/shopadmin/internal/interfaces/cli/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "shopadmin",
		Short:        "Shop admin server and tools",
		Long:         `shopadmin serves the admin panel API and the token-authenticated order API, and ships the migration, token, report and user tools.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		worker.NewCommand(),
		migrate.NewCommand(),
		token.NewCommand(),
		report.NewCommand(),
		user.NewCommand(),
		version.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
