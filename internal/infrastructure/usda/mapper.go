package usda

import "github.com/calorietracker/backend/internal/domain"

// searchResponse is the body of GET /foods/search
type searchResponse struct {
	Foods       []food `json:"foods"`
	TotalHits   int    `json:"totalHits"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
}

type food struct {
	FdcID       int            `json:"fdcId"`
	Description string         `json:"description"`
	DataType    string         `json:"dataType,omitempty"`
	Nutrients   []foodNutrient `json:"foodNutrients"`
}

type foodNutrient struct {
	NutrientID   int     `json:"nutrientId"`
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName,omitempty"`
	Value        float64 `json:"value"`
}

// mapCandidates converts USDA foods to domain candidates, preserving order
func mapCandidates(foods []food) []domain.FoodCandidate {
	candidates := make([]domain.FoodCandidate, 0, len(foods))
	for _, f := range foods {
		candidates = append(candidates, domain.FoodCandidate{
			FdcID:       f.FdcID,
			Description: f.Description,
			Nutrients:   mapNutrients(f.Nutrients),
		})
	}
	return candidates
}

func mapNutrients(nutrients []foodNutrient) []domain.Nutrient {
	out := make([]domain.Nutrient, 0, len(nutrients))
	for _, n := range nutrients {
		out = append(out, domain.Nutrient{
			ID:    n.NutrientID,
			Name:  n.NutrientName,
			Value: n.Value,
		})
	}
	return out
}
