package usecase

import (
	"math"

	"github.com/calorietracker/backend/internal/domain"
)

const (
	goalHorizonWeeks = 12.0

	kcalPerKgLost   = 7700.0
	kcalPerKgGained = 5500.0

	minimumBurnGoal = 200
)

var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:        1.2,
	domain.ActivityLightlyActive:    1.375,
	domain.ActivityModeratelyActive: 1.55,
	domain.ActivityVeryActive:       1.725,
	domain.ActivityExtraActive:      1.9,
}

// kcal burned per kg of body weight per day, by activity level
var burnFactors = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:        2.0,
	domain.ActivityLightlyActive:    3.0,
	domain.ActivityModeratelyActive: 4.0,
	domain.ActivityVeryActive:       5.0,
	domain.ActivityExtraActive:      6.0,
}

var burnGoalMultipliers = map[domain.Goal]float64{
	domain.GoalLoseWeight:     1.5,
	domain.GoalMaintainWeight: 1.2,
	domain.GoalGainWeight:     0.8,
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day
func BMR(p domain.BiometricProfile) float64 {
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.Gender == domain.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// ActivityMultiplier returns the TDEE multiplier for level, 1.2 when unknown
func ActivityMultiplier(level domain.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return 1.2
}

// MinimumCalories is the lowest daily calorie goal allowed for the gender and age
func MinimumCalories(gender domain.Gender, age int) int {
	if gender == domain.GenderMale {
		if age < 18 {
			return 1800
		}
		return 1500
	}
	if age < 18 {
		return 1600
	}
	return 1200
}

// goalAdjustment is the daily kcal delta for the weekly rate of change
// implied by reaching GoalWeightKg over twelve weeks. The clamp range is
// chosen by Goal alone, so a lose goal always yields a deficit even when
// GoalWeightKg is above WeightKg.
func goalAdjustment(p domain.BiometricProfile) float64 {
	weeklyChange := (p.GoalWeightKg - p.WeightKg) / goalHorizonWeeks

	switch p.Goal {
	case domain.GoalLoseWeight:
		weeklyChange = clamp(weeklyChange, -1.0, -0.5)
		return weeklyChange * kcalPerKgLost / 7
	case domain.GoalGainWeight:
		weeklyChange = clamp(weeklyChange, 0.25, 0.5)
		return weeklyChange * kcalPerKgGained / 7
	default:
		return 0
	}
}

// DailyCalorieGoal computes the daily intake target: BMR scaled by activity,
// adjusted for the goal, floored at MinimumCalories and rounded.
func DailyCalorieGoal(p domain.BiometricProfile) int {
	tdee := BMR(p)*ActivityMultiplier(p.ActivityLevel) + goalAdjustment(p)

	floor := float64(MinimumCalories(p.Gender, p.Age))
	if tdee < floor {
		tdee = floor
	}
	return int(math.Round(tdee))
}

// DailyCalorieBurnGoal computes the daily exercise burn target, never below 200 kcal
func DailyCalorieBurnGoal(p domain.BiometricProfile) int {
	factor, ok := burnFactors[p.ActivityLevel]
	if !ok {
		factor = 2.0
	}
	multiplier, ok := burnGoalMultipliers[p.Goal]
	if !ok {
		multiplier = 1.0
	}

	burn := int(math.Round(p.WeightKg * factor * multiplier))
	return max(burn, minimumBurnGoal)
}

// CalculateEnergyGoals recomputes both daily targets from scratch
func CalculateEnergyGoals(p domain.BiometricProfile) domain.EnergyGoals {
	return domain.EnergyGoals{
		DailyCalorieGoal:     DailyCalorieGoal(p),
		DailyCalorieBurnGoal: DailyCalorieBurnGoal(p),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
