package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/homespark/internal/domain/types"
)

// Wire shapes of the endpoints the probe calls.
type (
	Preferences struct {
		BudgetMin       int    `json:"budget_min"`
		BudgetMax       int    `json:"budget_max"`
		StylePreference string `json:"style_preference"`
		RoomType        string `json:"room_type"`
		IndoorOutdoor   string `json:"indoor_outdoor"`
		Location        string `json:"location"`
		ClimateType     string `json:"climate_type"`
	}

	Settings struct {
		MaxResults int `json:"max_results"`
	}

	Request struct {
		UserPreferences Preferences `json:"user_preferences"`
		RequestSettings Settings    `json:"request_settings"`
	}

	Warning struct {
		Dimension string `json:"dimension"`
		Input     string `json:"input"`
		Message   string `json:"message"`
	}

	Response struct {
		RequestID        string                 `json:"request_id"`
		Recommendations  []types.Recommendation `json:"recommendations"`
		ModelType        string                 `json:"model_type"`
		ProcessingTimeMs float64                `json:"processing_time_ms"`
		TotalResults     int                    `json:"total_results"`
		Fallback         bool                   `json:"fallback"`
		Warnings         []Warning              `json:"warnings"`
	}

	Health struct {
		Status      string `json:"status"`
		ModelLoaded bool   `json:"model_loaded"`
	}

	ModelInfo struct {
		ModelLoaded  bool                `json:"model_loaded"`
		ModelType    string              `json:"model_type"`
		DatasetSize  int                 `json:"dataset_size"`
		Vocabularies map[string][]string `json:"vocabularies"`
	}
)

// Client is a small JSON client for the HomeSpark API.
type Client struct {
	base   string
	client *http.Client
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Health calls GET /api/health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &h)
	return h, err
}

// ModelInfo calls GET /api/model-info.
func (c *Client) ModelInfo(ctx context.Context) (ModelInfo, error) {
	var m ModelInfo
	err := c.do(ctx, http.MethodGet, "/api/model-info", nil, &m)
	return m, err
}

// Recommend calls POST /api/recommendations.
func (c *Client) Recommend(ctx context.Context, req Request) (Response, error) {
	var r Response
	err := c.do(ctx, http.MethodPost, "/api/recommendations", req, &r)
	return r, err
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
