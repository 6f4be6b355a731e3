package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantsim/makerbot/internal/domain"
)

// EventJournal appends engine events to the maker_events table, one row per
// event, so fills, cancels, and balance history survive restarts. It
// implements domain.Sink.
type EventJournal struct {
	pool *pgxpool.Pool
}

// NewEventJournal creates an EventJournal backed by the given pool.
func NewEventJournal(pool *pgxpool.Pool) *EventJournal {
	return &EventJournal{pool: pool}
}

// EnsureSchema creates the maker_events table if it does not exist.
func (j *EventJournal) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS maker_events (
			id           BIGSERIAL PRIMARY KEY,
			event_type   TEXT        NOT NULL,
			occurred_at  TIMESTAMPTZ NOT NULL,
			side         TEXT,
			asset        TEXT,
			price        DOUBLE PRECISION,
			amount       DOUBLE PRECISION,
			highest_bid  DOUBLE PRECISION,
			lowest_ask   DOUBLE PRECISION,
			total_orders INTEGER,
			quote        DOUBLE PRECISION,
			base         DOUBLE PRECISION
		)`
	if _, err := j.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

// Name implements domain.Sink.
func (j *EventJournal) Name() string { return "postgres" }

// Publish inserts one event row.
func (j *EventJournal) Publish(ctx context.Context, ev domain.Event) error {
	const query = `
		INSERT INTO maker_events (
			event_type, occurred_at, side, asset, price, amount,
			highest_bid, lowest_ask, total_orders, quote, base
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := j.pool.Exec(ctx, query,
		string(ev.Type), ev.Time,
		nullIfEmpty(string(ev.Side)), nullIfEmpty(string(ev.Asset)),
		ev.Price, ev.Amount,
		ev.HighestBid, ev.LowestAsk, ev.TotalOrders,
		ev.Quote, ev.Base,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert event: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit journal rows, newest first.
func (j *EventJournal) RecentEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	const query = `
		SELECT event_type, occurred_at, COALESCE(side, ''), COALESCE(asset, ''),
			price, amount, highest_bid, lowest_ask, total_orders, quote, base
		FROM maker_events
		ORDER BY id DESC
		LIMIT $1`

	rows, err := j.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: query events: %w", err)
	}
	defer rows.Close()

	return scanEventRows(rows)
}

func scanEventRows(rows pgx.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var (
			ev          domain.Event
			typ         string
			side, asset string
			occurredAt  time.Time
		)
		if err := rows.Scan(
			&typ, &occurredAt, &side, &asset,
			&ev.Price, &ev.Amount,
			&ev.HighestBid, &ev.LowestAsk, &ev.TotalOrders,
			&ev.Quote, &ev.Base,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan event: %w", err)
		}
		ev.Type = domain.EventType(typ)
		ev.Time = occurredAt
		ev.Side = domain.Side(side)
		ev.Asset = domain.Asset(asset)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
