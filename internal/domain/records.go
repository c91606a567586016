package domain

import "time"

// Record is anything the RecordStore can persist
type Record interface {
	recordKind() string
}

// MealRecord is a logged food or, when IsActivity is set, a logged activity
type MealRecord struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Timestamp       time.Time `json:"timestamp"`
	Calories        int       `json:"calories"`
	Protein         float64   `json:"protein"`
	Carbs           float64   `json:"carbs"`
	Fat             float64   `json:"fat"`
	Notes           string    `json:"notes,omitempty"`
	IsActivity      bool      `json:"isActivity"`
	DurationMinutes int       `json:"durationMinutes,omitempty"`
	Source          string    `json:"source,omitempty"`
}

func (*MealRecord) recordKind() string { return "meal" }

// EffectiveCalories is negative for activities
func (m MealRecord) EffectiveCalories() int {
	if m.IsActivity {
		return -m.Calories
	}
	return m.Calories
}

func (m MealRecord) totalMacros() float64 {
	return m.Protein + m.Carbs + m.Fat
}

// ProteinPercentage is protein's share of total macronutrient grams
func (m MealRecord) ProteinPercentage() float64 {
	return percentOf(m.Protein, m.totalMacros())
}

// CarbsPercentage is carbohydrate's share of total macronutrient grams
func (m MealRecord) CarbsPercentage() float64 {
	return percentOf(m.Carbs, m.totalMacros())
}

// FatPercentage is fat's share of total macronutrient grams
func (m MealRecord) FatPercentage() float64 {
	return percentOf(m.Fat, m.totalMacros())
}

func percentOf(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

// WeightEntry is a single body-weight measurement
type WeightEntry struct {
	ID       string    `json:"id"`
	WeightKg float64   `json:"weightKg"`
	Date     time.Time `json:"date"`
}

func (*WeightEntry) recordKind() string { return "weight" }

// ProfileRecord is the stored user profile together with its computed goals
type ProfileRecord struct {
	Name            string           `json:"name"`
	Profile         BiometricProfile `json:"profile"`
	InitialWeightKg float64          `json:"initialWeightKg"`
	Goals           EnergyGoals      `json:"goals"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (*ProfileRecord) recordKind() string { return "profile" }

// DailySummary aggregates one local day of journal entries
type DailySummary struct {
	Date              string      `json:"date"`
	ConsumedCalories  int         `json:"consumedCalories"`
	BurnedCalories    int         `json:"burnedCalories"`
	NetCalories       int         `json:"netCalories"`
	RemainingCalories int         `json:"remainingCalories"`
	Goals             EnergyGoals `json:"goals"`
	Protein           float64     `json:"protein"`
	Carbs             float64     `json:"carbs"`
	Fat               float64     `json:"fat"`
	MealCount         int         `json:"mealCount"`
	ActivityCount     int         `json:"activityCount"`
}
