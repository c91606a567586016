package domain

// EstimateSource records where a NutritionEstimate came from
type EstimateSource string

const (
	SourceUSDA    EstimateSource = "usda"
	SourceCache   EstimateSource = "cache"
	SourceDefault EstimateSource = "default"
)

// Nutrient is a single (name, value) pair reported for a candidate food.
// Values are per 100g; the unit is implied by the nutrient.
type Nutrient struct {
	ID    int     `json:"nutrientId"`
	Name  string  `json:"nutrientName"`
	Value float64 `json:"value"`
}

// FoodCandidate is one ranked record returned by the nutrient database
type FoodCandidate struct {
	FdcID       int        `json:"fdcId"`
	Description string     `json:"description"`
	Nutrients   []Nutrient `json:"foodNutrients"`
}

// Macros holds calories (kcal) and protein/carbs/fat (grams)
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Scale returns the macros multiplied by factor
func (m Macros) Scale(factor float64) Macros {
	return Macros{
		Calories: m.Calories * factor,
		Protein:  m.Protein * factor,
		Carbs:    m.Carbs * factor,
		Fat:      m.Fat * factor,
	}
}

// NutritionEstimate is the resolved nutrition for one serving of a food
type NutritionEstimate struct {
	Name         string         `json:"name"`
	Calories     float64        `json:"calories"`
	Protein      float64        `json:"protein"`
	Carbs        float64        `json:"carbs"`
	Fat          float64        `json:"fat"`
	ServingGrams float64        `json:"servingGrams"`
	FdcID        int            `json:"fdcId,omitempty"`
	Source       EstimateSource `json:"source"`
}

// Macros returns the estimate's calorie and macronutrient values
func (e NutritionEstimate) Macros() Macros {
	return Macros{Calories: e.Calories, Protein: e.Protein, Carbs: e.Carbs, Fat: e.Fat}
}

// Prediction is one label produced by the photo classifier
type Prediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}
