package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calorietracker/backend/internal/domain"
	"go.uber.org/zap"
)

// ProfileService stores the user's biometric profile together with its energy goals
type ProfileService struct {
	store  domain.RecordStore
	now    func() time.Time
	logger *zap.Logger
}

// NewProfileService creates a new profile service backed by store
func NewProfileService(store domain.RecordStore, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		store:  store,
		now:    time.Now,
		logger: logger.Named("profile"),
	}
}

// Get returns the stored profile or ErrProfileNotFound
func (s *ProfileService) Get(ctx context.Context) (*domain.ProfileRecord, error) {
	return s.store.Profile(ctx)
}

// Save validates profile, recomputes both goals and overwrites the stored
// record in a single save. The initial weight and creation time of an
// existing profile are kept.
func (s *ProfileService) Save(ctx context.Context, name string, profile domain.BiometricProfile) (*domain.ProfileRecord, error) {
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}

	now := s.now()
	record := &domain.ProfileRecord{
		Name:            strings.TrimSpace(name),
		Profile:         profile,
		InitialWeightKg: profile.WeightKg,
		CreatedAt:       now,
	}

	existing, err := s.store.Profile(ctx)
	switch {
	case err == nil:
		record.InitialWeightKg = existing.InitialWeightKg
		record.CreatedAt = existing.CreatedAt
		if record.Name == "" {
			record.Name = existing.Name
		}
	case !errors.Is(err, domain.ErrProfileNotFound):
		return nil, err
	}

	record.Goals = CalculateEnergyGoals(profile)
	record.UpdatedAt = now

	s.store.Insert(record)
	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("profile saved",
		zap.Int("calorie_goal", record.Goals.DailyCalorieGoal),
		zap.Int("burn_goal", record.Goals.DailyCalorieBurnGoal))
	return record, nil
}

// Accepted biometric ranges. LogWeight uses the same weight range.
const (
	MinWeightKg = 20.0
	MaxWeightKg = 500.0
	MinHeightCm = 50.0
	MaxHeightCm = 300.0
	MinAge      = 1
	MaxAge      = 130
)

// ValidateProfile rejects values the goal calculation cannot use.
// Unknown activity levels and goals are accepted and fall back to defaults.
func ValidateProfile(p domain.BiometricProfile) error {
	switch {
	case p.Age < MinAge || p.Age > MaxAge:
		return fmt.Errorf("%w: age must be between %d and %d", domain.ErrInvalidRequest, MinAge, MaxAge)
	case !inRange(p.HeightCm, MinHeightCm, MaxHeightCm):
		return fmt.Errorf("%w: height must be between %.0f and %.0f cm", domain.ErrInvalidRequest, MinHeightCm, MaxHeightCm)
	}
	if err := ValidateWeight(p.WeightKg); err != nil {
		return err
	}
	if !inRange(p.GoalWeightKg, MinWeightKg, MaxWeightKg) {
		return fmt.Errorf("%w: goal weight must be between %.0f and %.0f kg",
			domain.ErrInvalidRequest, MinWeightKg, MaxWeightKg)
	}
	return nil
}

// ValidateWeight rejects body weights outside MinWeightKg..MaxWeightKg
func ValidateWeight(kg float64) error {
	if !inRange(kg, MinWeightKg, MaxWeightKg) {
		return fmt.Errorf("%w: weight must be between %.0f and %.0f kg",
			domain.ErrInvalidRequest, MinWeightKg, MaxWeightKg)
	}
	return nil
}

// inRange is false for NaN
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
