// Package report fans structured engine events out to reporting sinks
// (structured log, Redis stream, Postgres journal, S3 archive) and filters
// them by event type so operators receive only what they configured.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quantsim/makerbot/internal/domain"
)

// Dispatcher delivers events to every registered sink. It maintains a set of
// allowed event types; events outside the set are dropped before dispatch.
// Dispatcher itself implements domain.Sink so the engine only sees one sink.
type Dispatcher struct {
	sinks  []domain.Sink
	events map[domain.EventType]bool // allowed event types; empty allows all
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher delivering to the given sinks. Only
// events whose type appears in events pass the filter; an empty list allows
// every type.
func NewDispatcher(sinks []domain.Sink, events []string, logger *slog.Logger) *Dispatcher {
	allowed := make(map[domain.EventType]bool, len(events))
	for _, e := range events {
		allowed[domain.EventType(strings.TrimSpace(e))] = true
	}
	return &Dispatcher{
		sinks:  sinks,
		events: allowed,
		logger: logger.With(slog.String("component", "dispatcher")),
	}
}

// Name implements domain.Sink.
func (d *Dispatcher) Name() string { return "dispatcher" }

// Publish forwards ev to all sinks if its type passes the filter. Errors from
// individual sinks are collected and returned combined; one failing sink does
// not stop delivery to the rest.
func (d *Dispatcher) Publish(ctx context.Context, ev domain.Event) error {
	if len(d.events) > 0 && !d.events[ev.Type] {
		return nil
	}

	var errs []string
	for _, s := range d.sinks {
		if err := s.Publish(ctx, ev); err != nil {
			d.logger.ErrorContext(ctx, "sink failed",
				slog.String("sink", s.Name()),
				slog.String("event", string(ev.Type)),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("report: %d sink(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
