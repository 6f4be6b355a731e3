package maker

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/quantsim/makerbot/internal/domain"
)

// scriptRand replays a fixed sequence of values, cycling when exhausted.
type scriptRand struct {
	vals []float64
	i    int
}

func (r *scriptRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

// memorySink records every published event.
type memorySink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (s *memorySink) Name() string { return "memory" }

func (s *memorySink) Publish(_ context.Context, ev domain.Event) error {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return nil
}

func (s *memorySink) byType(typ domain.EventType) []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Event
	for _, ev := range s.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

// staticSource returns a fixed snapshot or error.
type staticSource struct {
	snap domain.Snapshot
	err  error
}

func (s *staticSource) Fetch(context.Context) (domain.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.DiscardHandler)
}

func defaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Deviation:   0.05,
		MinBidQuote: 0.01,
		MinAskBase:  0.00001,
	}
}

func defaultEngineConfig() Config {
	return Config{
		InitialQuote:    20,
		InitialBase:     0.1,
		OrdersPerSide:   5,
		Deviation:       0.05,
		SpreadTolerance: 0.05,
		MinBidQuote:     0.01,
		MinAskBase:      0.00001,
	}
}
