// Package classifier talks to a hosted food-detection model that accepts a
// base64 JPEG and answers with labelled predictions.
package classifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/calorietracker/backend/internal/domain"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Config holds the settings for the classifier client
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Client posts photos to the classifier endpoint
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     *zap.Logger
}

type predictionResponse struct {
	Predictions []domain.Prediction `json:"predictions"`
}

// NewClient creates a classifier client. The API key is sent as a query parameter.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid classifier url: %w", err)
	}
	if cfg.APIKey != "" {
		q := u.Query()
		q.Set("api_key", cfg.APIKey)
		u.RawQuery = q.Encode()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   u.String(),
		logger:     logger.Named("classifier"),
	}, nil
}

// Classify sends the JPEG bytes and returns every prediction in response order
func (c *Client) Classify(ctx context.Context, jpeg []byte) ([]domain.Prediction, error) {
	payload := base64.StdEncoding.EncodeToString(jpeg)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrClassifierFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w: %v", domain.ErrClassifierFailed, domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w: reading body: %v", domain.ErrClassifierFailed, domain.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("unexpected status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", domain.ErrClassifierFailed, resp.StatusCode)
	}

	var pr predictionResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", domain.ErrClassifierFailed, domain.ErrDecode, err)
	}

	c.logger.Debug("classified photo", zap.Int("predictions", len(pr.Predictions)))
	return pr.Predictions, nil
}
