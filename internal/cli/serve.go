package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/calorietracker/backend/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCommand creates the serve command
func NewServeCommand(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server. Configuration is read from config.yaml, .env
and CALORIETRACKER_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().String("port", "", "Override the configured port")
	return cmd
}

func runServe(cmd *cobra.Command, opts Options) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}

	logger, err := app.NewLogger(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("error during shutdown", zap.Error(err))
		}
	}()

	return a.Run(ctx)
}
