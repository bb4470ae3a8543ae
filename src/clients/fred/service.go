package fred

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"finboard/src/config"
	"finboard/src/utils/requests"
)

const (
	retryAttempts = 2
	retryDelay    = 300 * time.Millisecond
)

type FREDServiceClientI interface {
	Enabled() bool
	GetLatest(ctx context.Context, seriesID string, count int) ([]Observation, error)
}

// FREDServiceClient reads observations from the St. Louis Fed API
type FREDServiceClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
	APIKey  string
}

func NewClient(cfg *config.Config) *FREDServiceClient {
	return &FREDServiceClient{
		API:     requests.NewExternalAPIService(cfg.ExternalClients.FRED.Timeout),
		BaseURL: strings.TrimRight(cfg.ExternalClients.FRED.BaseURL, "/"),
		APIKey:  cfg.ExternalClients.FRED.APIKey,
	}
}

// Enabled reports whether an API key is configured; FRED rejects anonymous calls.
func (c *FREDServiceClient) Enabled() bool {
	return c.APIKey != ""
}

// GetLatest returns the most recent count observations, newest first
func (c *FREDServiceClient) GetLatest(ctx context.Context, seriesID string, count int) ([]Observation, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("fred series %s: api key not configured", seriesID)
	}
	endpoint := fmt.Sprintf("%s/fred/series/observations", c.BaseURL)

	params := url.Values{}
	params.Add("series_id", seriesID)
	params.Add("api_key", c.APIKey)
	params.Add("file_type", "json")
	params.Add("sort_order", "desc")
	params.Add("limit", strconv.Itoa(count))

	var response ObservationsResponse
	err := requests.WithRetry(ctx, retryAttempts, retryDelay, func(ctx context.Context) error {
		response = ObservationsResponse{}
		return c.API.GetJSON(ctx, endpoint, params, &response)
	})
	if err != nil {
		return nil, fmt.Errorf("fred series %s: %w", seriesID, err)
	}
	return response.Observations, nil
}
