package usecase

import (
	"strings"

	"github.com/calorietracker/backend/internal/domain"
)

// GenericDefaultMacros is returned when nothing in the table matches
var GenericDefaultMacros = domain.Macros{Calories: 500, Protein: 20, Carbs: 45, Fat: 25}

// Per-serving values, already calibrated to the serving sizes above
var defaultNutritionEntries = []keywordEntry[domain.Macros]{
	{"burger", domain.Macros{Calories: 550, Protein: 25, Carbs: 45, Fat: 30}},
	{"cheeseburger", domain.Macros{Calories: 550, Protein: 25, Carbs: 45, Fat: 30}},
	{"big mac", domain.Macros{Calories: 550, Protein: 25, Carbs: 45, Fat: 30}},
	{"whopper", domain.Macros{Calories: 660, Protein: 28, Carbs: 49, Fat: 40}},

	{"pizza", domain.Macros{Calories: 300, Protein: 12, Carbs: 35, Fat: 15}},
	{"pepperoni pizza", domain.Macros{Calories: 350, Protein: 15, Carbs: 35, Fat: 20}},

	{"sandwich", domain.Macros{Calories: 350, Protein: 15, Carbs: 40, Fat: 15}},
	{"sub", domain.Macros{Calories: 400, Protein: 20, Carbs: 45, Fat: 18}},
	{"club sandwich", domain.Macros{Calories: 550, Protein: 35, Carbs: 45, Fat: 25}},

	{"fries", domain.Macros{Calories: 365, Protein: 4, Carbs: 48, Fat: 17}},
	{"onion rings", domain.Macros{Calories: 411, Protein: 5, Carbs: 45, Fat: 24}},
	{"nuggets", domain.Macros{Calories: 250, Protein: 14, Carbs: 15, Fat: 15}},

	{"taco", domain.Macros{Calories: 170, Protein: 8, Carbs: 13, Fat: 9}},
	{"burrito", domain.Macros{Calories: 500, Protein: 20, Carbs: 60, Fat: 20}},
	{"hot dog", domain.Macros{Calories: 290, Protein: 10, Carbs: 18, Fat: 18}},
}

var defaultNutritionCategories = []categoryRule[domain.Macros]{
	{keywords: []string{"burger", "hamburger"}, value: domain.Macros{Calories: 550, Protein: 25, Carbs: 45, Fat: 30}},
	{keywords: []string{"pizza"}, value: domain.Macros{Calories: 300, Protein: 12, Carbs: 35, Fat: 15}},
	{keywords: []string{"sandwich", "sub"}, value: domain.Macros{Calories: 350, Protein: 15, Carbs: 40, Fat: 15}},
	{keywords: []string{"fries", "chips"}, value: domain.Macros{Calories: 365, Protein: 4, Carbs: 48, Fat: 17}},
	{keywords: []string{"taco", "burrito"}, value: domain.Macros{Calories: 335, Protein: 14, Carbs: 36.5, Fat: 14.5}},
	{keywords: []string{"hot dog", "sausage"}, value: domain.Macros{Calories: 290, Protein: 10, Carbs: 18, Fat: 18}},
}

// DefaultNutritionTable supplies per-serving nutrition when the remote lookup
// has nothing usable
type DefaultNutritionTable struct {
	table      keywordTable[domain.Macros]
	categories []categoryRule[domain.Macros]
}

// NewDefaultNutritionTable builds the curated fallback table
func NewDefaultNutritionTable() *DefaultNutritionTable {
	return &DefaultNutritionTable{
		table:      newKeywordTable(defaultNutritionEntries),
		categories: defaultNutritionCategories,
	}
}

// Defaults returns calories, protein, carbs and fat for one serving of foodName
func (d *DefaultNutritionTable) Defaults(foodName string) domain.Macros {
	lowered := strings.ToLower(foodName)

	if m, ok := d.table.match(lowered); ok {
		return m
	}
	if m, ok := matchCategory(d.categories, lowered); ok {
		return m
	}
	return GenericDefaultMacros
}
