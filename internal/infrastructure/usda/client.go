package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/calorietracker/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read into memory
const maxBodyBytes = 4 << 20

// Config holds the settings for a FoodData Central client
type Config struct {
	APIKey          string
	BaseURL         string
	RequestsPerHour int
	Timeout         time.Duration
}

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new USDA API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	// USDA allows 1000 requests per hour by default
	perHour := cfg.RequestsPerHour
	if perHour <= 0 {
		perHour = 1000
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perHour)/3600.0), 10)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		rateLimiter: limiter,
		logger:      logger.Named("usda"),
	}
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrLookupFailed, err)
	}
	req.Header.Set("User-Agent", "CalorieTracker/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", domain.ErrLookupFailed, domain.ErrNetwork, err)
	}

	return resp, nil
}

// SearchFoods searches for foods in the USDA database.
// The service's own ranking is preserved; an empty result is not an error.
func (c *Client) SearchFoods(ctx context.Context, query string) ([]domain.FoodCandidate, error) {
	c.logger.Debug("search foods", zap.String("query", query))

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w: rate limiter: %v", domain.ErrLookupFailed, domain.ErrNetwork, err)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	reqURL := fmt.Sprintf("%s/foods/search?%s", c.baseURL, params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		c.logger.Warn("request failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: reading body: %v", domain.ErrLookupFailed, domain.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("unexpected status",
			zap.String("query", query),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(body, 256)))
		return nil, fmt.Errorf("%w: status %d", domain.ErrLookupFailed, resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		c.logger.Warn("decode failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("%w: %w: failed to decode response: %v", domain.ErrLookupFailed, domain.ErrDecode, err)
	}

	candidates := mapCandidates(searchResp.Foods)
	c.logger.Debug("search complete", zap.String("query", query), zap.Int("results", len(candidates)))
	return candidates, nil
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
