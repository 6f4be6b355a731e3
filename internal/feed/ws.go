package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quantsim/makerbot/internal/domain"
)

const (
	handshakeTimeout  = 15 * time.Second
	reconnectDelay    = 2 * time.Second
	maxReconnectDelay = 60 * time.Second
)

// WSSourceConfig holds the websocket book feed parameters.
type WSSourceConfig struct {
	// URL is the websocket endpoint, e.g. "wss://api.deversifi.com/ws".
	URL string
	// Symbol is the market pair, e.g. "ETH:USDT".
	Symbol string
	// Precision is the book aggregation level, e.g. "P0".
	Precision string
	// Depth is the number of levels requested per side.
	Depth int
	// StaleAfter bounds how old the last received book state may be before
	// Fetch reports the source unavailable.
	StaleAfter time.Duration
}

// WSSource maintains a live order-book state from a streaming book channel
// (Bitfinex-style: an initial level snapshot followed by incremental
// [price, count, amount] updates, where count 0 removes the level). Fetch
// returns the current state, so the engine consumes the stream through the
// same SnapshotSource interface as the REST client.
type WSSource struct {
	cfg    WSSourceConfig
	logger *slog.Logger

	mu         sync.RWMutex
	levels     map[float64]domain.SnapshotEntry
	lastUpdate time.Time
}

// NewWSSource creates a WSSource. Run must be started for Fetch to ever
// succeed.
func NewWSSource(cfg WSSourceConfig, logger *slog.Logger) *WSSource {
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 30 * time.Second
	}
	return &WSSource{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "ws_feed")),
		levels: make(map[float64]domain.SnapshotEntry),
	}
}

// Fetch returns the latest book state. It fails when no snapshot has been
// received yet or the stream has gone stale.
func (s *WSSource) Fetch(_ context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.levels) == 0 {
		return nil, fmt.Errorf("feed: no book snapshot received yet")
	}
	if time.Since(s.lastUpdate) > s.cfg.StaleAfter {
		return nil, fmt.Errorf("feed: book stream stale since %s", s.lastUpdate.Format(time.RFC3339))
	}

	snap := make(domain.Snapshot, 0, len(s.levels))
	for _, entry := range s.levels {
		snap = append(snap, entry)
	}
	return snap, nil
}

// Run connects to the book channel and keeps the local state current,
// reconnecting with exponential backoff until ctx is cancelled.
func (s *WSSource) Run(ctx context.Context) error {
	delay := reconnectDelay
	for {
		err := s.stream(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.logger.WarnContext(ctx, "book stream disconnected, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

func (s *WSSource) stream(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("feed: dial %s: %w", s.cfg.URL, err)
	}
	defer conn.Close()

	sub := map[string]any{
		"event":   "subscribe",
		"channel": "book",
		"symbol":  s.cfg.Symbol,
		"prec":    s.cfg.Precision,
		"len":     s.cfg.Depth,
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("feed: subscribe: %w", err)
	}

	s.logger.InfoContext(ctx, "book stream connected",
		slog.String("symbol", s.cfg.Symbol),
	)

	// Close the connection when ctx is cancelled so ReadMessage unblocks.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("feed: read: %w", err)
		}
		if err := s.handleMessage(payload); err != nil {
			s.logger.DebugContext(ctx, "skipping book message",
				slog.String("error", err.Error()),
			)
		}
	}
}

// handleMessage processes one channel frame: [chanID, payload] where payload
// is either a full level snapshot ([][3]float64), a single level update
// ([3]float64), or the "hb" heartbeat. Event objects (subscribe acks, info)
// are ignored.
func (s *WSSource) handleMessage(payload []byte) error {
	var frame []json.RawMessage
	if err := json.Unmarshal(payload, &frame); err != nil {
		// Not an array frame: subscribe ack or info event.
		return nil
	}
	if len(frame) < 2 {
		return nil
	}

	body := frame[1]

	var heartbeat string
	if err := json.Unmarshal(body, &heartbeat); err == nil {
		s.touch()
		return nil
	}

	var levels []domain.SnapshotEntry
	if err := json.Unmarshal(body, &levels); err == nil {
		s.mu.Lock()
		s.levels = make(map[float64]domain.SnapshotEntry, len(levels))
		for _, entry := range levels {
			s.levels[entry.Price] = entry
		}
		s.lastUpdate = time.Now()
		s.mu.Unlock()
		return nil
	}

	var update domain.SnapshotEntry
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("unrecognized book frame")
	}

	s.mu.Lock()
	if update.Count <= 0 {
		delete(s.levels, update.Price)
	} else {
		s.levels[update.Price] = update
	}
	s.lastUpdate = time.Now()
	s.mu.Unlock()
	return nil
}

func (s *WSSource) touch() {
	s.mu.Lock()
	s.lastUpdate = time.Now()
	s.mu.Unlock()
}
