package cli

import (
	"github.com/calorietracker/backend/internal/domain"
	"github.com/calorietracker/backend/internal/usecase"
	"github.com/spf13/cobra"
)

// NewGoalsCommand creates the goals command
func NewGoalsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Compute daily calorie and burn goals",
		Long: `Compute the daily calorie goal and daily calorie burn goal for a
biometric profile. Nothing is stored.`,
		Example: `  calorietracker goals --gender male --age 30 --height 175 --weight 80 \
    --activity sedentary --goal lose --goal-weight 70`,
		Args: cobra.NoArgs,
		RunE: runGoals,
	}

	cmd.Flags().String("gender", "female", "Gender (male or female)")
	cmd.Flags().Int("age", 0, "Age in years")
	cmd.Flags().Float64("height", 0, "Height in cm")
	cmd.Flags().Float64("weight", 0, "Current weight in kg")
	cmd.Flags().String("activity", "sedentary", "Activity level (sedentary, lightly_active, moderately_active, very_active, extra_active)")
	cmd.Flags().String("goal", "maintain", "Goal (lose, maintain, gain)")
	cmd.Flags().Float64("goal-weight", 0, "Goal weight in kg (defaults to current weight)")

	cmd.MarkFlagRequired("age")
	cmd.MarkFlagRequired("height")
	cmd.MarkFlagRequired("weight")

	return cmd
}

func runGoals(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	gender, _ := flags.GetString("gender")
	age, _ := flags.GetInt("age")
	height, _ := flags.GetFloat64("height")
	weight, _ := flags.GetFloat64("weight")
	activity, _ := flags.GetString("activity")
	goal, _ := flags.GetString("goal")
	goalWeight, _ := flags.GetFloat64("goal-weight")
	if goalWeight == 0 {
		goalWeight = weight
	}

	profile := domain.BiometricProfile{
		Gender:        domain.ParseGender(gender),
		Age:           age,
		HeightCm:      height,
		WeightKg:      weight,
		ActivityLevel: domain.ParseActivityLevel(activity),
		Goal:          domain.ParseGoal(goal),
		GoalWeightKg:  goalWeight,
	}
	if err := usecase.ValidateProfile(profile); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if profile.ActivityLevel == domain.ActivityUnknown {
		printNote(w, "Unknown activity level %q; using sedentary multiplier.", activity)
	}
	if profile.Goal == domain.GoalUnknown {
		printNote(w, "Unknown goal %q; no goal adjustment applied.", goal)
	}

	goals := usecase.CalculateEnergyGoals(profile)
	printField(w, "BMR", "%.0f kcal", usecase.BMR(profile))
	printField(w, "Calorie goal", "%d kcal/day", goals.DailyCalorieGoal)
	printField(w, "Burn goal", "%d kcal/day", goals.DailyCalorieBurnGoal)
	printField(w, "Minimum intake", "%d kcal/day", usecase.MinimumCalories(profile.Gender, profile.Age))
	return nil
}
