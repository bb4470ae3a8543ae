package bcb

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"finboard/src/config"
	"finboard/src/utils/requests"
)

const (
	retryAttempts = 2
	retryDelay    = 300 * time.Millisecond
)

type BCBServiceClientI interface {
	GetLatest(ctx context.Context, code int, count int) ([]SeriesPoint, error)
}

// BCBServiceClient reads time series from the Banco Central do Brasil SGS API
type BCBServiceClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
}

// NewClient creates a new instance of BCBServiceClient
func NewClient(cfg *config.Config) *BCBServiceClient {
	return &BCBServiceClient{
		API:     requests.NewExternalAPIService(cfg.ExternalClients.BCB.Timeout),
		BaseURL: strings.TrimRight(cfg.ExternalClients.BCB.BaseURL, "/"),
	}
}

// GetLatest fetches the last count observations of an SGS series, oldest first
func (c *BCBServiceClient) GetLatest(ctx context.Context, code int, count int) ([]SeriesPoint, error) {
	endpoint := fmt.Sprintf("%s/bcdata.sgs.%d/dados/ultimos/%d", c.BaseURL, code, count)
	params := url.Values{}
	params.Add("formato", "json")

	var points []SeriesPoint
	err := requests.WithRetry(ctx, retryAttempts, retryDelay, func(ctx context.Context) error {
		points = nil
		return c.API.GetJSON(ctx, endpoint, params, &points)
	})
	if err != nil {
		return nil, fmt.Errorf("bcb series %d: %w", code, err)
	}
	return points, nil
}
