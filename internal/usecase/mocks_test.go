package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/calorietracker/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string][]byte
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	lastTTL   time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalled = true
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockLookupClient is a mock implementation of domain.NutrientLookupClient.
// Queries without an entry in results return no candidates.
type MockLookupClient struct {
	results map[string][]domain.FoodCandidate
	errors  map[string]error
	queries []string
}

func NewMockLookupClient() *MockLookupClient {
	return &MockLookupClient{
		results: make(map[string][]domain.FoodCandidate),
		errors:  make(map[string]error),
	}
}

func (m *MockLookupClient) SearchFoods(ctx context.Context, query string) ([]domain.FoodCandidate, error) {
	m.queries = append(m.queries, query)
	if err, ok := m.errors[query]; ok {
		return nil, err
	}
	return m.results[query], nil
}

// MockClassifier is a mock implementation of domain.FoodClassifier
type MockClassifier struct {
	predictions []domain.Prediction
	err         error
	calls       int
}

func (m *MockClassifier) Classify(ctx context.Context, jpeg []byte) ([]domain.Prediction, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.predictions, nil
}

// stubResolver returns a fixed estimate and records requested names
type stubResolver struct {
	estimate domain.NutritionEstimate
	names    []string
}

func (r *stubResolver) ResolveByName(ctx context.Context, name string) *domain.NutritionEstimate {
	r.names = append(r.names, name)
	e := r.estimate
	return &e
}

// MockRecordStore is an in-memory domain.RecordStore
type MockRecordStore struct {
	mu        sync.Mutex
	pending   []domain.Record
	meals     map[string]domain.MealRecord
	weights   []domain.WeightEntry
	profile   *domain.ProfileRecord
	saveError error
	readError error
	saves     int
}

func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{meals: make(map[string]domain.MealRecord)}
}

func (m *MockRecordStore) Insert(record domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, record)
}

func (m *MockRecordStore) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if m.saveError != nil {
		m.pending = nil
		return m.saveError
	}
	for _, r := range m.pending {
		switch rec := r.(type) {
		case *domain.MealRecord:
			m.meals[rec.ID] = *rec
		case *domain.WeightEntry:
			m.weights = append(m.weights, *rec)
		case *domain.ProfileRecord:
			p := *rec
			m.profile = &p
		}
	}
	m.pending = nil
	return nil
}

func (m *MockRecordStore) Profile(ctx context.Context) (*domain.ProfileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readError != nil {
		return nil, m.readError
	}
	if m.profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	p := *m.profile
	return &p, nil
}

func (m *MockRecordStore) MealsBetween(ctx context.Context, start, end time.Time) ([]domain.MealRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readError != nil {
		return nil, m.readError
	}
	var out []domain.MealRecord
	for _, meal := range m.meals {
		if !meal.Timestamp.Before(start) && meal.Timestamp.Before(end) {
			out = append(out, meal)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *MockRecordStore) WeightEntries(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > len(m.weights) {
		limit = len(m.weights)
	}
	return append([]domain.WeightEntry(nil), m.weights[:limit]...), nil
}

func (m *MockRecordStore) DeleteMeal(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.meals[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(m.meals, id)
	return nil
}
