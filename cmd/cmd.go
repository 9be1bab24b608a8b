package cmd

import (
	"context"
	"log/slog"

	"github.com/gaze-network/presale/internal/config"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:  "presale",
	Long: `Tiered token presale engine with optional vesting`,
}

func init() {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g.  `./config.yaml`")
	flags.String("network", "local", "network of the tokens, E.g. `bsc`, `bsc-testnet` or `local`")

	// Bind flags to configuration
	config.BindPFlag("network", flags.Lookup("network"))

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		// Initialize configuration
		config := config.Parse(configFile)

		// Initialize logger
		if err := logger.Init(config.Logger); err != nil {
			logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})
}

func Execute(ctx context.Context) {
	// Register sub-commands
	cmd.AddCommand(
		NewVersionCommand(),
		NewRunCommand(),
		NewMigrateCommand(),
		NewStatusCommand(),
		NewClaimCommand(),
		NewExportCommand(),
		NewGenerateKeypairCommand(),
	)

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.PanicContext(ctx, "Failed to execute root command", slogx.Error(err))
	}
}
