package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thorbond/bond-indexer/internal/config"
	"github.com/thorbond/bond-indexer/pkg/logger"
	"github.com/thorbond/bond-indexer/pkg/logger/slogx"
)

var cmd = &cobra.Command{
	Use:  "bond-indexer",
	Long: `Reconciliation engine for the THORBond bonding marketplace`,
}

func init() {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		conf := config.Parse(configFile)

		if err := logger.Init(conf.Logger); err != nil {
			logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", conf.Logger))
		}
	})
}

func Execute(ctx context.Context) {
	// Register sub-commands and handlers
	cmd.AddCommand(
		NewRunCommand(),
		NewVersionCommand(),
	)

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Fatal("Failed to execute root command", slogx.Error(err))
	}
}
