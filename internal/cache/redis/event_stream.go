package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/quantsim/makerbot/internal/domain"
)

// EventStream publishes engine events to a capped Redis stream via XADD, for
// consumption by an external UI or monitoring process. It implements
// domain.Sink.
type EventStream struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

// NewEventStream creates an EventStream appending to the named stream,
// trimming it to approximately maxLen entries.
func NewEventStream(c *Client, stream string, maxLen int64) *EventStream {
	return &EventStream{
		rdb:    c.Underlying(),
		stream: stream,
		maxLen: maxLen,
	}
}

// Name implements domain.Sink.
func (es *EventStream) Name() string { return "redis_stream" }

// Publish appends the event as a JSON payload keyed by its type.
func (es *EventStream) Publish(ctx context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redis: marshal event: %w", err)
	}

	err = es.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: es.stream,
		MaxLen: es.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":    string(ev.Type),
			"payload": payload,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("redis: xadd %s: %w", es.stream, err)
	}
	return nil
}
