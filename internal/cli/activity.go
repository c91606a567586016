package cli

import (
	"fmt"
	"strconv"

	"github.com/calorietracker/backend/internal/usecase"
	"github.com/spf13/cobra"
)

// NewActivityCommand creates the activity command
func NewActivityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activity <name> <minutes>",
		Short: "Estimate calories burned by an activity",
		Long: fmt.Sprintf(`Estimate calories burned by an activity from a per-minute rate.
Known activities: %v. Others use 5 kcal/min.`, usecase.KnownActivities),
		Example: `  calorietracker activity running 30
  calorietracker activity "weight lifting" 45`,
		Args: cobra.ExactArgs(2),
		RunE: runActivity,
	}
}

func runActivity(cmd *cobra.Command, args []string) error {
	minutes, err := strconv.Atoi(args[1])
	if err != nil || minutes <= 0 {
		return fmt.Errorf("minutes must be a positive integer, got %q", args[1])
	}

	w := cmd.OutOrStdout()
	printField(w, "Activity", "%s", args[0])
	printField(w, "Duration", "%d min", minutes)
	printField(w, "Burned", "%d kcal", usecase.CaloriesBurned(args[0], minutes))
	return nil
}
