package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/calorietracker/backend/config"
	"github.com/calorietracker/backend/internal/domain"
	"github.com/calorietracker/backend/internal/infrastructure/storage"
	"github.com/calorietracker/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// fakeLookupClient answers SearchFoods from a fixed map
type fakeLookupClient struct {
	results map[string][]domain.FoodCandidate
	err     error
}

func (f *fakeLookupClient) SearchFoods(ctx context.Context, query string) ([]domain.FoodCandidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

// fakeClassifier returns fixed predictions
type fakeClassifier struct {
	predictions []domain.Prediction
	err         error
	lastImage   []byte
}

func (f *fakeClassifier) Classify(ctx context.Context, jpeg []byte) ([]domain.Prediction, error) {
	f.lastImage = jpeg
	return f.predictions, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		USDA:  config.USDAConfig{APIKey: "test-api-key", BaseURL: "https://api.nal.usda.gov/fdc/v1"},
		Cache: config.CacheConfig{Type: "memory"},
	}
}

// setupTestRouter creates a router with no services; use case endpoints answer 501
func setupTestRouter() *gin.Engine {
	return SetupRouter(testConfig(), NewHandler(Services{}, nil), nil)
}

type testEnv struct {
	router     *gin.Engine
	lookup     *fakeLookupClient
	classifier *fakeClassifier
	store      *storage.SQLiteStorage
}

// setupTestEnv wires real use cases over fakes for the remote services and a
// SQLite store in a temp directory
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	lookup := &fakeLookupClient{results: map[string][]domain.FoodCandidate{
		"whopper": {{
			FdcID:       170720,
			Description: "WHOPPER",
			Nutrients: []domain.Nutrient{
				{Name: "Energy", Value: 240},
				{Name: "Protein", Value: 10},
				{Name: "Carbohydrate, by difference", Value: 18},
				{Name: "Total lipid (fat)", Value: 15},
			},
		}},
	}}
	classifier := &fakeClassifier{}

	nutrition := usecase.NewNutritionService(lookup, nil, usecase.NutritionServiceConfig{}, nil)
	handler := NewHandler(Services{
		Nutrition:  nutrition,
		Recognizer: usecase.NewRecognitionService(classifier, nutrition, 0, nil),
		Profiles:   usecase.NewProfileService(store, nil),
		Journal:    usecase.NewJournalService(store, nutrition, nil),
	}, nil)

	return &testEnv{
		router:     SetupRouter(testConfig(), handler, nil),
		lookup:     lookup,
		classifier: classifier,
		store:      store,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return response
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		response := decodeBody(t, w)
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "calorietracker-backend" {
			t.Errorf("service = %v, want calorietracker-backend", response["service"])
		}
		if response["version"] != Version {
			t.Errorf("version = %v, want %s", response["version"], Version)
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter()

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			req, _ := http.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestUnconfiguredServices checks that missing use cases answer 501
func TestUnconfiguredServices(t *testing.T) {
	router := setupTestRouter()

	endpoints := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/nutrition/resolve"},
		{"POST", "/api/v1/nutrition/photo"},
		{"GET", "/api/v1/profile"},
		{"PUT", "/api/v1/profile"},
		{"POST", "/api/v1/journal/food"},
		{"POST", "/api/v1/journal/meals"},
		{"POST", "/api/v1/journal/activities"},
		{"POST", "/api/v1/journal/weights"},
		{"DELETE", "/api/v1/journal/meals/abc"},
		{"GET", "/api/v1/journal/summary"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			req, _ := http.NewRequest(endpoint.method, endpoint.path, strings.NewReader("{}"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotImplemented {
				t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Errorf("Content-Type = %q, want JSON", ct)
			}
		})
	}
}

func TestResolveNutritionEndpoint(t *testing.T) {
	t.Run("scales USDA values to the serving size", func(t *testing.T) {
		env := setupTestEnv(t)

		w := env.do(t, "POST", "/api/v1/nutrition/resolve", `{"name":"whopper"}`)

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, "WHOPPER", response["name"])
		assert.InDelta(t, 648.0, response["calories"], 1e-6) // 240 * 2.7
		assert.InDelta(t, 27.0, response["protein"], 1e-6)
		assert.Equal(t, "usda", response["source"])
		assert.Equal(t, 270.0, response["servingGrams"])
	})

	t.Run("falls back to defaults when lookup fails", func(t *testing.T) {
		env := setupTestEnv(t)
		env.lookup.err = domain.ErrLookupFailed

		w := env.do(t, "POST", "/api/v1/nutrition/resolve", `{"name":"xyzzynotfood"}`)

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, "xyzzynotfood", response["name"])
		assert.Equal(t, 500.0, response["calories"])
		assert.Equal(t, "default", response["source"])
	})

	t.Run("returns 400 for missing name", func(t *testing.T) {
		env := setupTestEnv(t)

		w := env.do(t, "POST", "/api/v1/nutrition/resolve", `{"food":"burger"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotNil(t, decodeBody(t, w)["error"])
	})

	t.Run("returns 400 for blank name", func(t *testing.T) {
		env := setupTestEnv(t)

		w := env.do(t, "POST", "/api/v1/nutrition/resolve", `{"name":"   "}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 400 for invalid JSON", func(t *testing.T) {
		env := setupTestEnv(t)

		w := env.do(t, "POST", "/api/v1/nutrition/resolve", `{invalid json}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecognizePhotoEndpoint(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	body := func(image string) string {
		b, _ := json.Marshal(PhotoRequest{Image: image})
		return string(b)
	}

	t.Run("resolves detected food", func(t *testing.T) {
		env := setupTestEnv(t)
		env.classifier.predictions = []domain.Prediction{
			{Class: "fries", Confidence: 0.2},
			{Class: "whopper", Confidence: 0.91},
		}

		w := env.do(t, "POST", "/api/v1/nutrition/photo", body(base64.StdEncoding.EncodeToString(jpeg)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, bytes.Equal(jpeg, env.classifier.lastImage))

		var result usecase.RecognitionResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "whopper", result.Prediction.Class)
		assert.Equal(t, "WHOPPER", result.Estimate.Name)
	})

	t.Run("accepts data URI", func(t *testing.T) {
		env := setupTestEnv(t)
		env.classifier.predictions = []domain.Prediction{{Class: "taco", Confidence: 0.8}}

		w := env.do(t, "POST", "/api/v1/nutrition/photo",
			body("data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(jpeg)))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("returns 422 when no food detected", func(t *testing.T) {
		env := setupTestEnv(t)
		env.classifier.predictions = []domain.Prediction{{Class: "plate", Confidence: 0.12}}

		w := env.do(t, "POST", "/api/v1/nutrition/photo", body(base64.StdEncoding.EncodeToString(jpeg)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("returns 502 when classifier fails", func(t *testing.T) {
		env := setupTestEnv(t)
		env.classifier.err = errors.Join(domain.ErrClassifierFailed, domain.ErrNetwork)

		w := env.do(t, "POST", "/api/v1/nutrition/photo", body(base64.StdEncoding.EncodeToString(jpeg)))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("returns 400 for non-base64 image", func(t *testing.T) {
		env := setupTestEnv(t)

		w := env.do(t, "POST", "/api/v1/nutrition/photo", body("!!! not base64 !!!"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProfileEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, "GET", "/api/v1/profile", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	payload := `{
		"name": "Alex",
		"gender": "Male",
		"age": 30,
		"heightCm": 175,
		"weightKg": 80,
		"activityLevel": "Sedentary (little or no exercise)",
		"goal": "Lose Weight",
		"goalWeightKg": 70
	}`
	w = env.do(t, "PUT", "/api/v1/profile", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var saved domain.ProfileRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, domain.EnergyGoals{DailyCalorieGoal: 1500, DailyCalorieBurnGoal: 240}, saved.Goals)
	assert.Equal(t, domain.ActivitySedentary, saved.Profile.ActivityLevel)
	assert.Equal(t, domain.GoalLoseWeight, saved.Profile.Goal)

	w = env.do(t, "GET", "/api/v1/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alex", decodeBody(t, w)["name"])

	w = env.do(t, "PUT", "/api/v1/profile", `{"gender":"female","age":0,"heightCm":160,"weightKg":60,"goalWeightKg":55}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "PUT", "/api/v1/profile", `{"gender":"male","age":30,"heightCm":175,"weightKg":1e300,"goalWeightKg":70}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "GET", "/api/v1/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alex", decodeBody(t, w)["name"], "rejected profile leaves the stored one")
}

func TestPreviewGoalsEndpoint(t *testing.T) {
	router := setupTestRouter()

	payload := `{"gender":"male","age":30,"heightCm":175,"weightKg":80,"activityLevel":"sedentary","goal":"lose_weight","goalWeightKg":70}`
	req := httptest.NewRequest("POST", "/api/v1/goals/preview", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		BMR   float64            `json:"bmr"`
		Goals domain.EnergyGoals `json:"goals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.InDelta(t, 1748.75, response.BMR, 1e-9)
	assert.Equal(t, 1500, response.Goals.DailyCalorieGoal)
	assert.Equal(t, 240, response.Goals.DailyCalorieBurnGoal)

	huge := `{"gender":"male","age":30,"heightCm":1e12,"weightKg":80,"goalWeightKg":70}`
	req = httptest.NewRequest("POST", "/api/v1/goals/preview", strings.NewReader(huge))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJournalEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	today := time.Now().Format(time.DateOnly)

	w := env.do(t, "POST", "/api/v1/journal/food", `{"name":"whopper","notes":"lunch"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	food := decodeBody(t, w)
	assert.Equal(t, 648.0, food["calories"])
	assert.Equal(t, "usda", food["source"])

	w = env.do(t, "POST", "/api/v1/journal/meals", `{"name":"Greek yogurt","calories":150,"protein":15,"carbs":8,"fat":4}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	yogurtID, _ := decodeBody(t, w)["id"].(string)
	require.NotEmpty(t, yogurtID)

	w = env.do(t, "POST", "/api/v1/journal/activities", `{"name":"Running","minutes":30}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 300.0, decodeBody(t, w)["calories"])

	w = env.do(t, "GET", "/api/v1/journal/summary?date="+today, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary domain.DailySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 798, summary.ConsumedCalories)
	assert.Equal(t, 300, summary.BurnedCalories)
	assert.Equal(t, 2, summary.MealCount)
	assert.Equal(t, usecase.DefaultEnergyGoals, summary.Goals)

	w = env.do(t, "DELETE", "/api/v1/journal/meals/"+yogurtID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, "DELETE", "/api/v1/journal/meals/"+yogurtID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, "POST", "/api/v1/journal/weights", `{"weightKg":600}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, "POST", "/api/v1/journal/weights", `{"weightKg":78.4}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "GET", "/api/v1/journal/summary?date=06/02/2025", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter()

	req, _ := http.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:5173")
	}
}

// TestRecoveryMiddleware tests panic recovery through the full router
func TestRecoveryMiddleware(t *testing.T) {
	router := setupTestRouter()
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	req, _ := http.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

// TestAPIVersioning tests that only /api/v1 routes exist
func TestAPIVersioning(t *testing.T) {
	router := setupTestRouter()

	req, _ := http.NewRequest("POST", "/api/nutrition/resolve", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDecodeImage(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0xFF, 0xFE, 0xFB}

	inputs := map[string]string{
		"standard":  base64.StdEncoding.EncodeToString(raw),
		"raw":       base64.RawStdEncoding.EncodeToString(raw),
		"url safe":  base64.URLEncoding.EncodeToString(raw),
		"raw url":   base64.RawURLEncoding.EncodeToString(raw),
		"data uri":  "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw),
		"with crlf": " " + base64.StdEncoding.EncodeToString(raw) + "\n",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := decodeImage(in)
			require.NoError(t, err)
			assert.Equal(t, raw, got)
		})
	}

	_, err := decodeImage("")
	assert.Error(t, err)
}
