package domain

import "strings"

// Gender selects the Mifflin-St Jeor constant and the minimum calorie floor
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel is one of five activity levels. ActivityUnknown is kept
// distinct so callers can see that the input did not decode.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtraActive      ActivityLevel = "extra_active"
	ActivityUnknown          ActivityLevel = ""
)

// Goal is the user's weight goal
type Goal string

const (
	GoalLoseWeight     Goal = "lose_weight"
	GoalMaintainWeight Goal = "maintain_weight"
	GoalGainWeight     Goal = "gain_weight"
	GoalUnknown        Goal = ""
)

// BiometricProfile holds the inputs to the energy goal calculation
type BiometricProfile struct {
	Gender        Gender        `json:"gender"`
	Age           int           `json:"age"`
	HeightCm      float64       `json:"heightCm"`
	WeightKg      float64       `json:"weightKg"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Goal          Goal          `json:"goal"`
	GoalWeightKg  float64       `json:"goalWeightKg"`
}

// EnergyGoals is the pair of daily targets derived from a BiometricProfile
type EnergyGoals struct {
	DailyCalorieGoal     int `json:"dailyCalorieGoal"`
	DailyCalorieBurnGoal int `json:"dailyCalorieBurnGoal"`
}

var activityAliases = map[string]ActivityLevel{
	"sedentary":         ActivitySedentary,
	"lightly_active":    ActivityLightlyActive,
	"lightlyactive":     ActivityLightlyActive,
	"light":             ActivityLightlyActive,
	"moderately_active": ActivityModeratelyActive,
	"moderatelyactive":  ActivityModeratelyActive,
	"moderate":          ActivityModeratelyActive,
	"very_active":       ActivityVeryActive,
	"veryactive":        ActivityVeryActive,
	"extra_active":      ActivityExtraActive,
	"extraactive":       ActivityExtraActive,
}

var goalAliases = map[string]Goal{
	"lose_weight":     GoalLoseWeight,
	"loseweight":      GoalLoseWeight,
	"lose":            GoalLoseWeight,
	"maintain_weight": GoalMaintainWeight,
	"maintainweight":  GoalMaintainWeight,
	"maintain":        GoalMaintainWeight,
	"gain_weight":     GoalGainWeight,
	"gainweight":      GoalGainWeight,
	"gain":            GoalGainWeight,
}

// normalizeEnum folds display strings such as
// "Lightly active (light exercise 1-3 days/week)" to "lightly_active".
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if idx := strings.Index(s, "("); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return s
}

// ParseGender decodes a gender. Anything other than male decodes to female.
func ParseGender(s string) Gender {
	if normalizeEnum(s) == string(GenderMale) {
		return GenderMale
	}
	return GenderFemale
}

// ParseActivityLevel decodes an activity level, returning ActivityUnknown
// for unrecognized input.
func ParseActivityLevel(s string) ActivityLevel {
	if level, ok := activityAliases[normalizeEnum(s)]; ok {
		return level
	}
	return ActivityUnknown
}

// ParseGoal decodes a goal, returning GoalUnknown for unrecognized input
func ParseGoal(s string) Goal {
	if goal, ok := goalAliases[normalizeEnum(s)]; ok {
		return goal
	}
	return GoalUnknown
}

func (g *Gender) UnmarshalText(text []byte) error {
	*g = ParseGender(string(text))
	return nil
}

func (a *ActivityLevel) UnmarshalText(text []byte) error {
	*a = ParseActivityLevel(string(text))
	return nil
}

func (g *Goal) UnmarshalText(text []byte) error {
	*g = ParseGoal(string(text))
	return nil
}
