package usecase

import "strings"

// foodCategory lists the alternate queries tried for names containing keyword
type foodCategory struct {
	keyword  string
	synonyms []string
}

// Evaluated in order; the first matching category wins
var variationCategories = []foodCategory{
	{"burger", []string{"hamburger", "cheeseburger", "beef burger", "fast food burger"}},
	{"pizza", []string{"cheese pizza", "pepperoni pizza", "pizza slice"}},
	{"sandwich", []string{"turkey sandwich", "chicken sandwich", "club sandwich"}},
	{"salad", []string{"garden salad", "caesar salad", "green salad"}},
	{"chicken", []string{"chicken breast", "roasted chicken", "grilled chicken"}},
	{"pasta", []string{"spaghetti", "fettuccine", "penne pasta"}},
}

// VariationGenerator produces fallback search queries for a food name
type VariationGenerator struct {
	categories []foodCategory
}

// NewVariationGenerator creates a generator over the built-in categories
func NewVariationGenerator() *VariationGenerator {
	return &VariationGenerator{categories: variationCategories}
}

// Variations returns name followed by the synonyms of the first matching
// category. The result always has name as its first element.
func (g *VariationGenerator) Variations(name string) []string {
	lowered := strings.ToLower(name)

	for _, c := range g.categories {
		if strings.Contains(lowered, c.keyword) {
			out := make([]string, 0, len(c.synonyms)+1)
			out = append(out, name)
			return append(out, c.synonyms...)
		}
	}
	return []string{name}
}
