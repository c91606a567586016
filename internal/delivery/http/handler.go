package http

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/calorietracker/backend/internal/domain"
	"github.com/calorietracker/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the health check
const Version = "1.0.0"

// FoodRecognizer labels a food photo and resolves it to nutrition
type FoodRecognizer interface {
	RecognizeAndResolve(ctx context.Context, jpeg []byte) (*usecase.RecognitionResult, error)
}

// ProfileManager reads and writes the biometric profile
type ProfileManager interface {
	Get(ctx context.Context) (*domain.ProfileRecord, error)
	Save(ctx context.Context, name string, profile domain.BiometricProfile) (*domain.ProfileRecord, error)
}

// Journal records meals, activities and weights
type Journal interface {
	LogFood(ctx context.Context, name, notes string) (*domain.MealRecord, error)
	LogMeal(ctx context.Context, in usecase.MealInput) (*domain.MealRecord, error)
	LogActivity(ctx context.Context, activity string, minutes int, notes string) (*domain.MealRecord, error)
	LogWeight(ctx context.Context, weightKg float64) (*domain.WeightEntry, error)
	DeleteMeal(ctx context.Context, id string) error
	DailySummary(ctx context.Context, day time.Time) (*domain.DailySummary, error)
}

// Services are the use cases exposed over HTTP. A nil member makes its
// endpoints respond 501.
type Services struct {
	Nutrition  usecase.NutritionResolver
	Recognizer FoodRecognizer
	Profiles   ProfileManager
	Journal    Journal
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	svc    Services
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(svc Services, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger.Named("http")}
}

// ResolveRequest is the body of POST /nutrition/resolve
type ResolveRequest struct {
	Name string `json:"name" binding:"required"`
}

// PhotoRequest carries a base64-encoded JPEG
type PhotoRequest struct {
	Image string `json:"image" binding:"required"`
}

// ProfileRequest is the biometric profile as sent by clients. Enum fields
// accept canonical and display forms.
type ProfileRequest struct {
	Name          string  `json:"name"`
	Gender        string  `json:"gender"`
	Age           int     `json:"age"`
	HeightCm      float64 `json:"heightCm"`
	WeightKg      float64 `json:"weightKg"`
	ActivityLevel string  `json:"activityLevel"`
	Goal          string  `json:"goal"`
	GoalWeightKg  float64 `json:"goalWeightKg"`
}

func (r ProfileRequest) profile() domain.BiometricProfile {
	return domain.BiometricProfile{
		Gender:        domain.ParseGender(r.Gender),
		Age:           r.Age,
		HeightCm:      r.HeightCm,
		WeightKg:      r.WeightKg,
		ActivityLevel: domain.ParseActivityLevel(r.ActivityLevel),
		Goal:          domain.ParseGoal(r.Goal),
		GoalWeightKg:  r.GoalWeightKg,
	}
}

// FoodRequest logs a food by name
type FoodRequest struct {
	Name  string `json:"name" binding:"required"`
	Notes string `json:"notes"`
}

// MealRequest logs a meal with explicit nutrition
type MealRequest struct {
	Name     string     `json:"name" binding:"required"`
	Calories int        `json:"calories"`
	Protein  float64    `json:"protein"`
	Carbs    float64    `json:"carbs"`
	Fat      float64    `json:"fat"`
	Notes    string     `json:"notes"`
	Time     *time.Time `json:"time"`
}

// ActivityRequest logs an activity
type ActivityRequest struct {
	Name    string `json:"name" binding:"required"`
	Minutes int    `json:"minutes" binding:"required"`
	Notes   string `json:"notes"`
}

// WeightRequest logs a weight measurement
type WeightRequest struct {
	WeightKg float64 `json:"weightKg" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "calorietracker-backend",
		"version": Version,
	})
}

// ResolveNutrition handles POST /api/v1/nutrition/resolve. It always
// answers 200 with an estimate, falling back to default values.
func (h *Handler) ResolveNutrition(c *gin.Context) {
	if h.svc.Nutrition == nil {
		notImplemented(c, "nutrition resolution")
		return
	}

	var req ResolveRequest
	if !h.bind(c, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		badRequest(c, "name must not be blank")
		return
	}

	c.JSON(http.StatusOK, h.svc.Nutrition.ResolveByName(c.Request.Context(), name))
}

// RecognizePhoto handles POST /api/v1/nutrition/photo
func (h *Handler) RecognizePhoto(c *gin.Context) {
	if h.svc.Recognizer == nil {
		notImplemented(c, "photo recognition")
		return
	}

	var req PhotoRequest
	if !h.bind(c, &req) {
		return
	}
	jpeg, err := decodeImage(req.Image)
	if err != nil {
		badRequest(c, "image must be base64 encoded")
		return
	}

	result, err := h.svc.Recognizer.RecognizeAndResolve(c.Request.Context(), jpeg)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProfile handles GET /api/v1/profile
func (h *Handler) GetProfile(c *gin.Context) {
	if h.svc.Profiles == nil {
		notImplemented(c, "profiles")
		return
	}

	record, err := h.svc.Profiles.Get(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// SaveProfile handles PUT /api/v1/profile
func (h *Handler) SaveProfile(c *gin.Context) {
	if h.svc.Profiles == nil {
		notImplemented(c, "profiles")
		return
	}

	var req ProfileRequest
	if !h.bind(c, &req) {
		return
	}

	record, err := h.svc.Profiles.Save(c.Request.Context(), req.Name, req.profile())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// PreviewGoals handles POST /api/v1/goals/preview without persisting anything
func (h *Handler) PreviewGoals(c *gin.Context) {
	var req ProfileRequest
	if !h.bind(c, &req) {
		return
	}

	profile := req.profile()
	if err := usecase.ValidateProfile(profile); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bmr":   usecase.BMR(profile),
		"goals": usecase.CalculateEnergyGoals(profile),
	})
}

// LogFood handles POST /api/v1/journal/food
func (h *Handler) LogFood(c *gin.Context) {
	if h.svc.Journal == nil {
		notImplemented(c, "journal")
		return
	}

	var req FoodRequest
	if !h.bind(c, &req) {
		return
	}

	meal, err := h.svc.Journal.LogFood(c.Request.Context(), req.Name, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// LogMeal handles POST /api/v1/journal/meals
func (h *Handler) LogMeal(c *gin.Context) {
	if h.svc.Journal == nil {
		notImplemented(c, "journal")
		return
	}

	var req MealRequest
	if !h.bind(c, &req) {
		return
	}

	in := usecase.MealInput{
		Name:     req.Name,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		Notes:    req.Notes,
	}
	if req.Time != nil {
		in.Time = *req.Time
	}

	meal, err := h.svc.Journal.LogMeal(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// LogActivity handles POST /api/v1/journal/activities
func (h *Handler) LogActivity(c *gin.Context) {
	if h.svc.Journal == nil {
		notImplemented(c, "journal")
		return
	}

	var req ActivityRequest
	if !h.bind(c, &req) {
		return
	}

	record, err := h.svc.Journal.LogActivity(c.Request.Context(), req.Name, req.Minutes, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// LogWeight handles POST /api/v1/journal/weights
func (h *Handler) LogWeight(c *gin.Context) {
	if h.svc.Journal == nil {
		notImplemented(c, "journal")
		return
	}

	var req WeightRequest
	if !h.bind(c, &req) {
		return
	}

	entry, err := h.svc.Journal.LogWeight(c.Request.Context(), req.WeightKg)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DeleteMeal handles DELETE /api/v1/journal/meals/:id
func (h *Handler) DeleteMeal(c *gin.Context) {
	if h.svc.Journal == nil {
		notImplemented(c, "journal")
		return
	}

	if err := h.svc.Journal.DeleteMeal(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DailySummary handles GET /api/v1/journal/summary?date=YYYY-MM-DD.
// The date defaults to today in server local time.
func (h *Handler) DailySummary(c *gin.Context) {
	if h.svc.Journal == nil {
		notImplemented(c, "journal")
		return
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
		if err != nil {
			badRequest(c, "date must be formatted as YYYY-MM-DD")
			return
		}
		day = parsed
	}

	summary, err := h.svc.Journal.DailySummary(c.Request.Context(), day)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// bind decodes the JSON body, answering 400 on failure
func (h *Handler) bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProfileNotFound), errors.Is(err, domain.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoFoodDetected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrClassifierFailed), errors.Is(err, domain.ErrLookupFailed):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, gin.H{"error": message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func notImplemented(c *gin.Context, feature string) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": feature + " is not configured"})
}

// decodeImage accepts standard or URL-safe base64, padded or not, with an
// optional data URI prefix.
func decodeImage(s string) ([]byte, error) {
	if idx := strings.Index(s, ";base64,"); idx >= 0 && strings.HasPrefix(s, "data:") {
		s = s[idx+len(";base64,"):]
	}
	s = strings.TrimSpace(s)

	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil && len(b) > 0 {
			return b, nil
		}
	}
	return nil, errors.New("invalid base64 image")
}
