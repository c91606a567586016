// Package cli implements the calorietracker command line tool
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/calorietracker/backend/config"
	"github.com/calorietracker/backend/internal/app"
	httpDelivery "github.com/calorietracker/backend/internal/delivery/http"
	"github.com/calorietracker/backend/internal/usecase"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ResolverFactory builds a nutrition resolver from configuration. The
// returned func releases its resources.
type ResolverFactory func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (usecase.NutritionResolver, func() error, error)

// Options injects the collaborators commands reach outside the process for
type Options struct {
	LoadConfig  func() (*config.Config, error)
	NewResolver ResolverFactory
}

func defaultOptions() Options {
	return Options{
		LoadConfig: config.Load,
		NewResolver: func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (usecase.NutritionResolver, func() error, error) {
			svc, closeFn, err := app.NewNutritionService(ctx, cfg, logger)
			if err != nil {
				return nil, nil, err
			}
			return svc, closeFn, nil
		},
	}
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultOptions())
}

func newRootCommand(opts Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "calorietracker",
		Short: "Nutrition resolution and energy goal tools",
		Long: color.CyanString(`calorietracker - nutrition resolution and energy goals

Resolve food names to per-serving calories and macros using USDA FoodData
Central, compute daily calorie and burn goals from a biometric profile,
estimate calories burned by an activity, or run the HTTP API server.`),
		Version:       httpDelivery.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}
	}

	rootCmd.AddCommand(NewResolveCommand(opts))
	rootCmd.AddCommand(NewGoalsCommand())
	rootCmd.AddCommand(NewActivityCommand())
	rootCmd.AddCommand(NewServeCommand(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

var (
	labelColor = color.New(color.FgCyan, color.Bold)
	valueColor = color.New(color.FgWhite)
	noteColor  = color.New(color.FgYellow)
)

// printField writes one "label: value" line
func printField(w io.Writer, label string, format string, args ...any) {
	labelColor.Fprintf(w, "%-18s", label+":")
	valueColor.Fprintf(w, " "+format+"\n", args...)
}

func printNote(w io.Writer, format string, args ...any) {
	noteColor.Fprintln(w, fmt.Sprintf(format, args...))
}
