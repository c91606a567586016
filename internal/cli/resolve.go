package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/calorietracker/backend/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewResolveCommand creates the resolve command
func NewResolveCommand(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <food name>",
		Short: "Resolve a food name to per-serving nutrition",
		Long: `Look up a food in USDA FoodData Central and print calories and macros
for one typical serving. Falls back to built-in defaults when nothing matches.`,
		Example: `  calorietracker resolve "big mac"
  calorietracker resolve chicken sandwich --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, opts)
		},
	}

	cmd.Flags().Bool("json", false, "Print the estimate as JSON")
	return cmd
}

func runResolve(cmd *cobra.Command, args []string, opts Options) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("food name must not be blank")
	}

	cfg, err := opts.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	resolver, closeFn, err := opts.NewResolver(cmd.Context(), cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer closeFn()

	estimate := resolver.ResolveByName(cmd.Context(), name)

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(estimate)
	}

	printEstimate(cmd, estimate)
	return nil
}

func printEstimate(cmd *cobra.Command, e *domain.NutritionEstimate) {
	w := cmd.OutOrStdout()
	printField(w, "Food", "%s", e.Name)
	printField(w, "Serving", "%.0f g", e.ServingGrams)
	printField(w, "Calories", "%.0f kcal", e.Calories)
	printField(w, "Protein", "%.1f g", e.Protein)
	printField(w, "Carbs", "%.1f g", e.Carbs)
	printField(w, "Fat", "%.1f g", e.Fat)
	printField(w, "Source", "%s", e.Source)
	if e.Source == domain.SourceDefault {
		printNote(w, "No USDA match; showing typical values.")
	}
}
