// Command portalctl runs maintenance tasks against the portal database.
package main

import (
	"fmt"
	"os"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "portalctl",
	Short:         "Maintenance tasks for the reporting portal",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createMasterCmd)
	rootCmd.AddCommand(exportRepliesCmd)
}

// connect opens the database described by the environment.
func connect() (*config.Config, error) {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
