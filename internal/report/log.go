package report

import (
	"context"
	"log/slog"

	"github.com/quantsim/makerbot/internal/domain"
)

// LogSink renders events through the structured logger. It is always
// registered, so no event goes unreported even with every optional sink
// disabled.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink writing through logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With(slog.String("component", "events"))}
}

// Name implements domain.Sink.
func (s *LogSink) Name() string { return "log" }

// Publish implements domain.Sink.
func (s *LogSink) Publish(ctx context.Context, ev domain.Event) error {
	attrs := []any{}
	switch ev.Type {
	case domain.EventOrderPlaced, domain.EventOrderFilled, domain.EventOrderCancelled:
		attrs = append(attrs,
			slog.String("side", string(ev.Side)),
			slog.Float64("price", ev.Price),
			slog.Float64("amount", ev.Amount),
		)
	case domain.EventCapacityExceeded:
		attrs = append(attrs,
			slog.String("asset", string(ev.Asset)),
			slog.String("side", string(ev.Side)),
		)
	case domain.EventCycleSummary:
		attrs = append(attrs,
			slog.Float64("highest_bid", ev.HighestBid),
			slog.Float64("lowest_ask", ev.LowestAsk),
			slog.Int("total_orders", ev.TotalOrders),
		)
	case domain.EventBalanceReport:
		attrs = append(attrs,
			slog.Float64("quote", ev.Quote),
			slog.Float64("base", ev.Base),
			slog.Int("total_orders", ev.TotalOrders),
		)
	}

	s.logger.InfoContext(ctx, string(ev.Type), attrs...)
	return nil
}
