package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/calorietracker/backend/internal/domain"
	"go.uber.org/zap"
)

// USDA nutrient names read from the first candidate. Matching is exact and case-sensitive.
const (
	nutrientEnergy  = "Energy"
	nutrientProtein = "Protein"
	nutrientCarbs   = "Carbohydrate, by difference"
	nutrientFat     = "Total lipid (fat)"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// NutritionServiceConfig holds configuration for the nutrition service
type NutritionServiceConfig struct {
	CacheTTL time.Duration
}

// NutritionService resolves a food name to a per-serving nutrition estimate.
// Flow: cache -> exact lookup -> variation lookups -> default table.
type NutritionService struct {
	lookup     domain.NutrientLookupClient
	cache      domain.CacheRepository
	variations *VariationGenerator
	servings   *ServingSizeResolver
	defaults   *DefaultNutritionTable
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewNutritionService creates a new nutrition service with dependencies.
// cache may be nil, in which case estimates are not memoized.
func NewNutritionService(
	lookup domain.NutrientLookupClient,
	cache domain.CacheRepository,
	config NutritionServiceConfig,
	logger *zap.Logger,
) *NutritionService {
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}

	return &NutritionService{
		lookup:     lookup,
		cache:      cache,
		variations: NewVariationGenerator(),
		servings:   NewServingSizeResolver(),
		defaults:   NewDefaultNutritionTable(),
		cacheTTL:   cacheTTL,
		logger:     logger.Named("nutrition"),
	}
}

// ResolveByName always returns a usable estimate. Lookup failures and empty
// result sets degrade to the default table.
func (s *NutritionService) ResolveByName(ctx context.Context, name string) *domain.NutritionEstimate {
	cacheKey := cacheKeyFor(name)

	if cached := s.getFromCache(ctx, cacheKey); cached != nil {
		cached.Source = domain.SourceCache
		return cached
	}

	candidates := s.searchWithVariations(ctx, name)
	if len(candidates) == 0 {
		s.logger.Debug("no candidates, using defaults", zap.String("name", name))
		return s.defaultEstimate(name)
	}

	estimate := s.estimateFromCandidate(name, candidates[0])
	s.setInCache(ctx, cacheKey, estimate)
	return estimate
}

// searchWithVariations tries the exact name, then each variation in order,
// stopping at the first non-empty result set.
func (s *NutritionService) searchWithVariations(ctx context.Context, name string) []domain.FoodCandidate {
	if candidates := s.search(ctx, name); len(candidates) > 0 {
		return candidates
	}

	for _, query := range s.variations.Variations(name) {
		if query == name {
			continue
		}
		if candidates := s.search(ctx, query); len(candidates) > 0 {
			s.logger.Debug("variation matched",
				zap.String("name", name),
				zap.String("query", query),
				zap.Int("results", len(candidates)))
			return candidates
		}
	}
	return nil
}

// search treats a failed lookup as an empty result
func (s *NutritionService) search(ctx context.Context, query string) []domain.FoodCandidate {
	if ctx.Err() != nil {
		return nil
	}

	candidates, err := s.lookup.SearchFoods(ctx, query)
	if err != nil {
		s.logger.Warn("lookup failed", zap.String("query", query), zap.Error(err))
		return nil
	}
	return candidates
}

// estimateFromCandidate scales the candidate's per-100g values to one serving of name
func (s *NutritionService) estimateFromCandidate(name string, candidate domain.FoodCandidate) *domain.NutritionEstimate {
	per100g := extractMacros(candidate.Nutrients)
	servingGrams := s.servings.Resolve(name)
	scaled := per100g.Scale(servingGrams / 100.0)

	return &domain.NutritionEstimate{
		Name:         candidate.Description,
		Calories:     scaled.Calories,
		Protein:      scaled.Protein,
		Carbs:        scaled.Carbs,
		Fat:          scaled.Fat,
		ServingGrams: servingGrams,
		FdcID:        candidate.FdcID,
		Source:       domain.SourceUSDA,
	}
}

func (s *NutritionService) defaultEstimate(name string) *domain.NutritionEstimate {
	m := s.defaults.Defaults(name)
	return &domain.NutritionEstimate{
		Name:         name,
		Calories:     m.Calories,
		Protein:      m.Protein,
		Carbs:        m.Carbs,
		Fat:          m.Fat,
		ServingGrams: s.servings.Resolve(name),
		Source:       domain.SourceDefault,
	}
}

// extractMacros reads the four tracked nutrients, using the first occurrence
// of each. Missing or negative values count as 0.
func extractMacros(nutrients []domain.Nutrient) domain.Macros {
	var m domain.Macros
	seen := make(map[string]bool, 4)

	for _, n := range nutrients {
		if seen[n.Name] {
			continue
		}
		var field *float64
		switch n.Name {
		case nutrientEnergy:
			field = &m.Calories
		case nutrientProtein:
			field = &m.Protein
		case nutrientCarbs:
			field = &m.Carbs
		case nutrientFat:
			field = &m.Fat
		default:
			continue
		}
		seen[n.Name] = true
		*field = max(n.Value, 0)
	}
	return m
}

// cacheKeyFor builds "nutrition:{normalized name}"
func cacheKeyFor(name string) string {
	return "nutrition:" + normalizeForCacheKey(name)
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// Converts to lowercase, turns special characters into spaces, and collapses whitespace.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// getFromCache returns nil on a miss or any cache error
func (s *NutritionService) getFromCache(ctx context.Context, key string) *domain.NutritionEstimate {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	var estimate domain.NutritionEstimate
	if err := json.Unmarshal(raw, &estimate); err != nil {
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &estimate
}

// setInCache stores the estimate; failures are logged and ignored
func (s *NutritionService) setInCache(ctx context.Context, key string, estimate *domain.NutritionEstimate) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(estimate)
	if err != nil {
		s.logger.Warn("failed to encode estimate", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
