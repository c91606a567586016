package usecase

import "strings"

// defaultBurnPerMinute applies to activities not in the table
const defaultBurnPerMinute = 5.0

// kcal per minute, keyed by lower-case activity name
var burnRates = map[string]float64{
	"running":        10,
	"walking":        4,
	"cycling":        8,
	"swimming":       7,
	"yoga":           3,
	"weight lifting": 5,
}

// KnownActivities lists the activities with a specific burn rate
var KnownActivities = []string{"Running", "Walking", "Cycling", "Swimming", "Yoga", "Weight Lifting"}

// CaloriesBurned estimates kcal burned by doing activity for minutes.
// The result is truncated toward zero; negative durations burn nothing.
func CaloriesBurned(activity string, minutes int) int {
	if minutes <= 0 {
		return 0
	}

	rate, ok := burnRates[strings.ToLower(strings.TrimSpace(activity))]
	if !ok {
		rate = defaultBurnPerMinute
	}
	return int(rate * float64(minutes))
}
