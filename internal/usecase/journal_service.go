package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/calorietracker/backend/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultEnergyGoals applies to the daily summary until a profile exists
var DefaultEnergyGoals = domain.EnergyGoals{DailyCalorieGoal: 2000, DailyCalorieBurnGoal: 300}

// MealInput is a meal logged with explicit nutrition values
type MealInput struct {
	Name     string    `json:"name"`
	Calories int       `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fat      float64   `json:"fat"`
	Notes    string    `json:"notes"`
	Time     time.Time `json:"time"`
}

// JournalService logs meals, activities and weight, and summarizes a day
type JournalService struct {
	store    domain.RecordStore
	resolver NutritionResolver
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger
}

// NewJournalService creates a new journal service
func NewJournalService(store domain.RecordStore, resolver NutritionResolver, logger *zap.Logger) *JournalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JournalService{
		store:    store,
		resolver: resolver,
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   logger.Named("journal"),
	}
}

// LogFood resolves name to a nutrition estimate and records it as a meal
func (s *JournalService) LogFood(ctx context.Context, name, notes string) (*domain.MealRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: food name is required", domain.ErrInvalidRequest)
	}

	estimate := s.resolver.ResolveByName(ctx, name)
	meal := &domain.MealRecord{
		ID:        s.newID(),
		Name:      estimate.Name,
		Timestamp: s.now(),
		Calories:  int(math.Round(estimate.Calories)),
		Protein:   estimate.Protein,
		Carbs:     estimate.Carbs,
		Fat:       estimate.Fat,
		Notes:     notes,
		Source:    string(estimate.Source),
	}

	if err := s.persist(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

// LogMeal records a meal with caller-supplied nutrition
func (s *JournalService) LogMeal(ctx context.Context, in MealInput) (*domain.MealRecord, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: meal name is required", domain.ErrInvalidRequest)
	case in.Calories < 0 || in.Protein < 0 || in.Carbs < 0 || in.Fat < 0:
		return nil, fmt.Errorf("%w: nutrition values must not be negative", domain.ErrInvalidRequest)
	}

	ts := in.Time
	if ts.IsZero() {
		ts = s.now()
	}

	meal := &domain.MealRecord{
		ID:        s.newID(),
		Name:      name,
		Timestamp: ts,
		Calories:  in.Calories,
		Protein:   in.Protein,
		Carbs:     in.Carbs,
		Fat:       in.Fat,
		Notes:     in.Notes,
		Source:    "manual",
	}

	if err := s.persist(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

// LogActivity records an activity with an estimated calorie burn
func (s *JournalService) LogActivity(ctx context.Context, activity string, minutes int, notes string) (*domain.MealRecord, error) {
	activity = strings.TrimSpace(activity)
	switch {
	case activity == "":
		return nil, fmt.Errorf("%w: activity name is required", domain.ErrInvalidRequest)
	case minutes <= 0:
		return nil, fmt.Errorf("%w: duration must be positive", domain.ErrInvalidRequest)
	}

	record := &domain.MealRecord{
		ID:              s.newID(),
		Name:            activity,
		Timestamp:       s.now(),
		Calories:        CaloriesBurned(activity, minutes),
		Notes:           notes,
		IsActivity:      true,
		DurationMinutes: minutes,
	}

	if err := s.persist(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// LogWeight records a weight measurement. When a profile exists its current
// weight is updated and its goals recomputed in the same save.
func (s *JournalService) LogWeight(ctx context.Context, weightKg float64) (*domain.WeightEntry, error) {
	if err := ValidateWeight(weightKg); err != nil {
		return nil, err
	}

	now := s.now()
	entry := &domain.WeightEntry{ID: s.newID(), WeightKg: weightKg, Date: now}

	profile, err := s.store.Profile(ctx)
	switch {
	case err == nil:
		profile.Profile.WeightKg = weightKg
		profile.Goals = CalculateEnergyGoals(profile.Profile)
		profile.UpdatedAt = now
		s.store.Insert(profile)
	case !errors.Is(err, domain.ErrProfileNotFound):
		return nil, err
	}

	s.store.Insert(entry)
	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("weight logged", zap.Float64("weight_kg", weightKg))
	return entry, nil
}

// DeleteMeal removes a meal or activity by ID
func (s *JournalService) DeleteMeal(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidRequest)
	}
	return s.store.DeleteMeal(ctx, id)
}

// DailySummary totals the journal for the calendar day containing day,
// in day's location.
func (s *JournalService) DailySummary(ctx context.Context, day time.Time) (*domain.DailySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	meals, err := s.store.MealsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	goals := DefaultEnergyGoals
	profile, err := s.store.Profile(ctx)
	switch {
	case err == nil:
		goals = profile.Goals
	case !errors.Is(err, domain.ErrProfileNotFound):
		return nil, err
	}

	summary := &domain.DailySummary{
		Date:  start.Format(time.DateOnly),
		Goals: goals,
	}
	for _, m := range meals {
		if m.IsActivity {
			summary.BurnedCalories += m.Calories
			summary.ActivityCount++
			continue
		}
		summary.ConsumedCalories += m.Calories
		summary.Protein += m.Protein
		summary.Carbs += m.Carbs
		summary.Fat += m.Fat
		summary.MealCount++
	}
	summary.NetCalories = summary.ConsumedCalories - summary.BurnedCalories
	summary.RemainingCalories = goals.DailyCalorieGoal - summary.NetCalories

	return summary, nil
}

func (s *JournalService) persist(ctx context.Context, meal *domain.MealRecord) error {
	s.store.Insert(meal)
	if err := s.store.Save(ctx); err != nil {
		return err
	}

	s.logger.Info("journal entry saved",
		zap.String("id", meal.ID),
		zap.String("name", meal.Name),
		zap.Int("calories", meal.Calories),
		zap.Bool("activity", meal.IsActivity))
	return nil
}
