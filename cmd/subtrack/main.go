package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/subtrack/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/subtrack/internal/interfaces/cli/export"
	"github.com/orris-inc/subtrack/internal/interfaces/cli/migrate"
	"github.com/orris-inc/subtrack/internal/interfaces/cli/remind"
	"github.com/orris-inc/subtrack/internal/interfaces/cli/server"
)

func main() {
	opts := &bootstrap.Options{}

	rootCmd := &cobra.Command{
		Use:           "subtrack",
		Short:         "Subtrack - customer subscription and renewal tracker",
		Long:          `Subtrack tracks which customers hold which products, records their payments and reminds them before renewals fall due.`,
		SilenceUsage:  true,
	}
	opts.Bind(rootCmd)

	rootCmd.AddCommand(
		server.NewCommand(opts),
		migrate.NewCommand(opts),
		remind.NewCommand(opts),
		export.NewCommand(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
