package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsim/makerbot/internal/domain"
)

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/market-data/book/ETH:USDT/P0/25", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[1005,3,2],[1010,4,-5]]`))
	}))
	defer srv.Close()

	source := NewHTTPSource(HTTPSourceConfig{
		BaseURL:   srv.URL,
		Symbol:    "ETH:USDT",
		Precision: "P0",
		Depth:     25,
		Timeout:   2 * time.Second,
	})

	snap, err := source.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, domain.SnapshotEntry{Price: 1005, Count: 3, Amount: 2}, snap[0])
	assert.Equal(t, domain.SnapshotEntry{Price: 1010, Count: 4, Amount: -5}, snap[1])
}

func TestHTTPSourceFetchRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	source := NewHTTPSource(HTTPSourceConfig{BaseURL: srv.URL, Symbol: "ETH:USDT", Precision: "P0", Depth: 25})

	_, err := source.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestHTTPSourceFetchRejectsMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a book"}`))
	}))
	defer srv.Close()

	source := NewHTTPSource(HTTPSourceConfig{BaseURL: srv.URL, Symbol: "ETH:USDT", Precision: "P0", Depth: 25})

	_, err := source.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode book")
}

func TestHTTPSourceFetchHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	source := NewHTTPSource(HTTPSourceConfig{BaseURL: srv.URL, Symbol: "ETH:USDT", Precision: "P0", Depth: 25})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := source.Fetch(ctx)
	require.Error(t, err)
}
