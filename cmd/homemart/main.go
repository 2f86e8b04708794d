package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/buildhomemart/homemart/internal/interfaces/cli/migrate"
	"github.com/buildhomemart/homemart/internal/interfaces/cli/reconcile"
	"github.com/buildhomemart/homemart/internal/interfaces/cli/seed"
	"github.com/buildhomemart/homemart/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "homemart",
		Short: "HomeMart - payment and subscription reconciliation",
		Long:  `HomeMart runs the marketplace billing API, the payment reconciler and the plan administration tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		reconcile.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
