package main

import (
	"os"

	"github.com/spf13/cobra"
)

// @title Dog Kennel API
// @version 1.0
// @description Perfiles de perros, catálogo de razas, cuentas y reclamo de dueños.
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serveCmd := newServeCmd()

	// Sin subcomando => serve.
	root := &cobra.Command{
		Use:          "kennel-api",
		Short:        "Dog kennel HTTP API",
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	root.AddCommand(serveCmd, newMigrateCmd())
	return root
}
