package usecase

import (
	"fmt"
	"math"
	"testing"

	"github.com/calorietracker/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBMR(t *testing.T) {
	male := domain.BiometricProfile{Gender: domain.GenderMale, Age: 30, HeightCm: 175, WeightKg: 80}
	female := domain.BiometricProfile{Gender: domain.GenderFemale, Age: 40, HeightCm: 165, WeightKg: 60}

	assert.InDelta(t, 1748.75, BMR(male), 1e-9)
	assert.InDelta(t, 1270.25, BMR(female), 1e-9)
}

func TestActivityMultiplier(t *testing.T) {
	testCases := []struct {
		level domain.ActivityLevel
		want  float64
	}{
		{domain.ActivitySedentary, 1.2},
		{domain.ActivityLightlyActive, 1.375},
		{domain.ActivityModeratelyActive, 1.55},
		{domain.ActivityVeryActive, 1.725},
		{domain.ActivityExtraActive, 1.9},
		{domain.ActivityUnknown, 1.2},
		{domain.ActivityLevel("couch_potato"), 1.2},
	}

	for _, tc := range testCases {
		t.Run(string(tc.level), func(t *testing.T) {
			if got := ActivityMultiplier(tc.level); got != tc.want {
				t.Errorf("ActivityMultiplier(%q) = %v, want %v", tc.level, got, tc.want)
			}
		})
	}
}

func TestDailyCalorieGoal(t *testing.T) {
	testCases := []struct {
		name    string
		profile domain.BiometricProfile
		want    int
	}{
		{
			name: "loss deficit clamped to male adult floor",
			profile: domain.BiometricProfile{
				Gender: domain.GenderMale, Age: 30, HeightCm: 175, WeightKg: 80,
				ActivityLevel: domain.ActivitySedentary, Goal: domain.GoalLoseWeight, GoalWeightKg: 70,
			},
			want: 1500,
		},
		{
			name: "gain surplus capped at 0.5 kg per week",
			profile: domain.BiometricProfile{
				Gender: domain.GenderMale, Age: 25, HeightCm: 180, WeightKg: 70,
				ActivityLevel: domain.ActivityVeryActive, Goal: domain.GoalGainWeight, GoalWeightKg: 80,
			},
			// 1705 * 1.725 + 0.5 * 5500 / 7
			want: 3334,
		},
		{
			name: "maintain applies no adjustment",
			profile: domain.BiometricProfile{
				Gender: domain.GenderFemale, Age: 40, HeightCm: 165, WeightKg: 60,
				ActivityLevel: domain.ActivityModeratelyActive, Goal: domain.GoalMaintainWeight, GoalWeightKg: 55,
			},
			// 1270.25 * 1.55
			want: 1969,
		},
		{
			name: "unknown goal applies no adjustment",
			profile: domain.BiometricProfile{
				Gender: domain.GenderFemale, Age: 40, HeightCm: 165, WeightKg: 60,
				ActivityLevel: domain.ActivityModeratelyActive, Goal: domain.GoalUnknown, GoalWeightKg: 55,
			},
			want: 1969,
		},
		{
			name: "male teen floor",
			profile: domain.BiometricProfile{
				Gender: domain.GenderMale, Age: 16, HeightCm: 160, WeightKg: 50,
				ActivityLevel: domain.ActivitySedentary, Goal: domain.GoalMaintainWeight, GoalWeightKg: 50,
			},
			want: 1800,
		},
		{
			name: "female teen floor",
			profile: domain.BiometricProfile{
				Gender: domain.GenderFemale, Age: 15, HeightCm: 150, WeightKg: 40,
				ActivityLevel: domain.ActivitySedentary, Goal: domain.GoalLoseWeight, GoalWeightKg: 35,
			},
			want: 1600,
		},
		{
			name: "female adult floor",
			profile: domain.BiometricProfile{
				Gender: domain.GenderFemale, Age: 70, HeightCm: 150, WeightKg: 45,
				ActivityLevel: domain.ActivitySedentary, Goal: domain.GoalLoseWeight, GoalWeightKg: 40,
			},
			want: 1200,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DailyCalorieGoal(tc.profile); got != tc.want {
				t.Errorf("DailyCalorieGoal() = %v, want %v", got, tc.want)
			}
		})
	}
}

// The weekly-change clamp range is selected by goal, not by the sign of
// goalWeight - weight. These cases pin that behavior.
func TestDailyCalorieGoal_ClampDirectionFollowsGoal(t *testing.T) {
	t.Run("lose goal above current weight still applies a deficit", func(t *testing.T) {
		p := domain.BiometricProfile{
			Gender: domain.GenderFemale, Age: 40, HeightCm: 165, WeightKg: 60,
			ActivityLevel: domain.ActivityModeratelyActive, Goal: domain.GoalLoseWeight, GoalWeightKg: 70,
		}
		// 1270.25 * 1.55 - 0.5 * 7700 / 7 = 1968.8875 - 550
		assert.Equal(t, 1419, DailyCalorieGoal(p))
	})

	t.Run("gain goal below current weight still applies a surplus", func(t *testing.T) {
		p := domain.BiometricProfile{
			Gender: domain.GenderMale, Age: 25, HeightCm: 180, WeightKg: 70,
			ActivityLevel: domain.ActivityVeryActive, Goal: domain.GoalGainWeight, GoalWeightKg: 60,
		}
		// 2941.125 + 0.25 * 5500 / 7
		assert.Equal(t, 3138, DailyCalorieGoal(p))
	})
}

func TestDailyCalorieBurnGoal(t *testing.T) {
	testCases := []struct {
		name     string
		weight   float64
		activity domain.ActivityLevel
		goal     domain.Goal
		want     int
	}{
		{"sedentary lose", 80, domain.ActivitySedentary, domain.GoalLoseWeight, 240},
		{"lightly active maintain", 70, domain.ActivityLightlyActive, domain.GoalMaintainWeight, 252},
		{"moderately active lose", 60, domain.ActivityModeratelyActive, domain.GoalLoseWeight, 360},
		{"very active gain", 75, domain.ActivityVeryActive, domain.GoalGainWeight, 300},
		{"extra active maintain", 70, domain.ActivityExtraActive, domain.GoalMaintainWeight, 504},
		{"floor applies", 50, domain.ActivitySedentary, domain.GoalGainWeight, 200},
		{"unknown activity and goal", 120, domain.ActivityUnknown, domain.GoalUnknown, 240},
		{"unknown below floor", 90, domain.ActivityUnknown, domain.GoalUnknown, 200},
		{"zero weight", 0, domain.ActivityExtraActive, domain.GoalLoseWeight, 200},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := domain.BiometricProfile{WeightKg: tc.weight, ActivityLevel: tc.activity, Goal: tc.goal}
			if got := DailyCalorieBurnGoal(p); got != tc.want {
				t.Errorf("DailyCalorieBurnGoal() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEnergyGoalProperties(t *testing.T) {
	genders := []domain.Gender{domain.GenderMale, domain.GenderFemale}
	ages := []int{13, 17, 18, 30, 85}
	weights := []float64{35, 80, 180}
	levels := []domain.ActivityLevel{
		domain.ActivitySedentary, domain.ActivityLightlyActive, domain.ActivityModeratelyActive,
		domain.ActivityVeryActive, domain.ActivityExtraActive, domain.ActivityUnknown,
	}
	goals := []domain.Goal{domain.GoalLoseWeight, domain.GoalMaintainWeight, domain.GoalGainWeight, domain.GoalUnknown}

	for _, g := range genders {
		for _, age := range ages {
			for _, w := range weights {
				for _, level := range levels {
					for _, goal := range goals {
						p := domain.BiometricProfile{
							Gender: g, Age: age, HeightCm: 170, WeightKg: w,
							ActivityLevel: level, Goal: goal, GoalWeightKg: 70,
						}
						name := fmt.Sprintf("%s/%d/%v/%s/%s", g, age, w, level, goal)

						floor := MinimumCalories(g, age)
						got := CalculateEnergyGoals(p)

						if got.DailyCalorieGoal < floor {
							t.Errorf("%s: calorie goal %d below floor %d", name, got.DailyCalorieGoal, floor)
						}
						if got.DailyCalorieBurnGoal < 200 {
							t.Errorf("%s: burn goal %d below 200", name, got.DailyCalorieBurnGoal)
						}
						if goal == domain.GoalMaintainWeight {
							want := max(int(math.Round(BMR(p)*ActivityMultiplier(level))), floor)
							if got.DailyCalorieGoal != want {
								t.Errorf("%s: maintain goal = %d, want %d", name, got.DailyCalorieGoal, want)
							}
						}
					}
				}
			}
		}
	}
}

func TestMinimumCalories(t *testing.T) {
	assert.Equal(t, 1800, MinimumCalories(domain.GenderMale, 17))
	assert.Equal(t, 1500, MinimumCalories(domain.GenderMale, 18))
	assert.Equal(t, 1600, MinimumCalories(domain.GenderFemale, 17))
	assert.Equal(t, 1200, MinimumCalories(domain.GenderFemale, 18))
}
