package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// NutrientLookupClient queries a remote food-composition database.
// An empty slice with a nil error means the query matched nothing.
type NutrientLookupClient interface {
	SearchFoods(ctx context.Context, query string) ([]FoodCandidate, error)
}

// FoodClassifier labels a JPEG photo of food
type FoodClassifier interface {
	Classify(ctx context.Context, jpeg []byte) ([]Prediction, error)
}

// RecordStore stages records with Insert and persists everything staged with Save.
// A failed Save discards the stage.
type RecordStore interface {
	Insert(record Record)
	Save(ctx context.Context) error

	Profile(ctx context.Context) (*ProfileRecord, error)
	MealsBetween(ctx context.Context, start, end time.Time) ([]MealRecord, error)
	WeightEntries(ctx context.Context, limit int) ([]WeightEntry, error)
	DeleteMeal(ctx context.Context, id string) error
}
