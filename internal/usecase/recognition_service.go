package usecase

import (
	"context"
	"fmt"

	"github.com/calorietracker/backend/internal/domain"
	"go.uber.org/zap"
)

// DefaultMinConfidence is the confidence a prediction must exceed to count as food
const DefaultMinConfidence = 0.3

// NutritionResolver turns a food name into an estimate
type NutritionResolver interface {
	ResolveByName(ctx context.Context, name string) *domain.NutritionEstimate
}

// RecognitionResult pairs the accepted prediction with its resolved nutrition
type RecognitionResult struct {
	Prediction domain.Prediction        `json:"prediction"`
	Estimate   *domain.NutritionEstimate `json:"estimate"`
}

// RecognitionService labels a food photo and resolves the label to nutrition
type RecognitionService struct {
	classifier    domain.FoodClassifier
	resolver      NutritionResolver
	minConfidence float64
	logger        *zap.Logger
}

// NewRecognitionService creates a new recognition service. A non-positive
// minConfidence selects DefaultMinConfidence.
func NewRecognitionService(
	classifier domain.FoodClassifier,
	resolver NutritionResolver,
	minConfidence float64,
	logger *zap.Logger,
) *RecognitionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}

	return &RecognitionService{
		classifier:    classifier,
		resolver:      resolver,
		minConfidence: minConfidence,
		logger:        logger.Named("recognition"),
	}
}

// RecognizeAndResolve classifies jpeg and resolves the most confident label.
// It returns ErrNoFoodDetected without resolving when the best prediction
// does not exceed the confidence threshold.
func (s *RecognitionService) RecognizeAndResolve(ctx context.Context, jpeg []byte) (*RecognitionResult, error) {
	if len(jpeg) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidRequest)
	}

	predictions, err := s.classifier.Classify(ctx, jpeg)
	if err != nil {
		return nil, err
	}

	best, ok := bestPrediction(predictions)
	if !ok || best.Confidence <= s.minConfidence {
		s.logger.Info("no food detected",
			zap.Int("predictions", len(predictions)),
			zap.Float64("best_confidence", best.Confidence))
		return nil, domain.ErrNoFoodDetected
	}

	s.logger.Debug("food detected",
		zap.String("class", best.Class),
		zap.Float64("confidence", best.Confidence))

	return &RecognitionResult{
		Prediction: best,
		Estimate:   s.resolver.ResolveByName(ctx, best.Class),
	}, nil
}

// bestPrediction returns the first prediction with the highest confidence
func bestPrediction(predictions []domain.Prediction) (domain.Prediction, bool) {
	if len(predictions) == 0 {
		return domain.Prediction{}, false
	}

	best := predictions[0]
	for _, p := range predictions[1:] {
		if p.Confidence > best.Confidence {
			best = p
		}
	}
	return best, true
}
