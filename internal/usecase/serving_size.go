package usecase

import "strings"

// DefaultServingGrams is used when no keyword matches
const DefaultServingGrams = 100.0

// Typical serving sizes in grams for common foods
var servingSizeEntries = []keywordEntry[float64]{
	// Fast food
	{"burger", 170},
	{"cheeseburger", 170},
	{"big mac", 219},
	{"whopper", 270},

	// Pizza, one slice
	{"pizza", 170},
	{"pepperoni pizza", 170},

	// Sandwiches
	{"sandwich", 200},
	{"sub", 250}, // 6-inch sub
	{"club sandwich", 300},

	// Fries and sides
	{"fries", 117},
	{"onion rings", 150},
	{"nuggets", 100}, // 4 pieces

	// Other fast food
	{"taco", 170},
	{"burrito", 300},
	{"hot dog", 150},
}

var servingSizeCategories = []categoryRule[float64]{
	{keywords: []string{"burger", "hamburger"}, value: 170},
	{keywords: []string{"pizza"}, value: 170},
	{keywords: []string{"sandwich", "sub"}, value: 200},
	{keywords: []string{"fries", "chips"}, value: 117},
	{keywords: []string{"taco", "burrito"}, value: 235},
	{keywords: []string{"hot dog", "sausage"}, value: 150},
}

// ServingSizeResolver estimates how many grams of a food make one serving
type ServingSizeResolver struct {
	table      keywordTable[float64]
	categories []categoryRule[float64]
}

// NewServingSizeResolver builds a resolver over the curated serving table
func NewServingSizeResolver() *ServingSizeResolver {
	return &ServingSizeResolver{
		table:      newKeywordTable(servingSizeEntries),
		categories: servingSizeCategories,
	}
}

// Resolve returns the serving size in grams for foodName. The result is always positive.
func (r *ServingSizeResolver) Resolve(foodName string) float64 {
	lowered := strings.ToLower(foodName)

	if grams, ok := r.table.match(lowered); ok {
		return grams
	}
	if grams, ok := matchCategory(r.categories, lowered); ok {
		return grams
	}
	return DefaultServingGrams
}
