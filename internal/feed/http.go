// Package feed implements snapshot sources for the market order book: a
// polling REST client and a streaming websocket client, both producing the
// same [price, count, amount] tuple snapshots.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quantsim/makerbot/internal/domain"
)

// HTTPSourceConfig holds the REST snapshot endpoint parameters.
type HTTPSourceConfig struct {
	// BaseURL is the API root, e.g. "https://api.deversifi.com".
	BaseURL string
	// Symbol is the market pair, e.g. "ETH:USDT".
	Symbol string
	// Precision is the book aggregation level, e.g. "P0".
	Precision string
	// Depth is the number of levels requested per side.
	Depth int
	// Timeout bounds each request.
	Timeout time.Duration
}

// HTTPSource fetches order-book snapshots over REST. It implements
// domain.SnapshotSource.
type HTTPSource struct {
	cfg        HTTPSourceConfig
	httpClient *http.Client
}

// NewHTTPSource creates an HTTPSource for the given endpoint.
func NewHTTPSource(cfg HTTPSourceConfig) *HTTPSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch requests one snapshot and decodes the tuple payload.
func (s *HTTPSource) Fetch(ctx context.Context) (domain.Snapshot, error) {
	url := fmt.Sprintf("%s/market-data/book/%s/%s/%d",
		s.cfg.BaseURL, s.cfg.Symbol, s.cfg.Precision, s.cfg.Depth)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("feed: build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed: fetch book: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed: fetch book: status %d: %s", resp.StatusCode, body)
	}

	var snap domain.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("feed: decode book: %w", err)
	}

	return snap, nil
}
