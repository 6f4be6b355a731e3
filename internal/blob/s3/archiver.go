package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/quantsim/makerbot/internal/domain"
)

// Archiver buffers every event published during a session and uploads the
// collected history as one JSON object on Flush, typically at shutdown. It
// implements domain.Sink; Publish never touches the network, so it adds no
// latency to the trading cycle.
type Archiver struct {
	client *Client
	prefix string

	mu      sync.Mutex
	started time.Time
	events  []domain.Event
}

// NewArchiver creates an Archiver uploading under the given key prefix.
func NewArchiver(c *Client, prefix string) *Archiver {
	return &Archiver{
		client:  c,
		prefix:  prefix,
		started: time.Now().UTC(),
	}
}

// Name implements domain.Sink.
func (a *Archiver) Name() string { return "s3_archive" }

// Publish buffers the event in memory.
func (a *Archiver) Publish(_ context.Context, ev domain.Event) error {
	a.mu.Lock()
	a.events = append(a.events, ev)
	a.mu.Unlock()
	return nil
}

// sessionReport is the JSON document uploaded per session.
type sessionReport struct {
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
	Events    []domain.Event `json:"events"`
}

// Flush uploads the buffered events as a timestamped JSON object and clears
// the buffer. A session with no events uploads nothing.
func (a *Archiver) Flush(ctx context.Context) error {
	a.mu.Lock()
	events := a.events
	a.events = nil
	started := a.started
	a.started = time.Now().UTC()
	a.mu.Unlock()

	if len(events) == 0 {
		return nil
	}

	report := sessionReport{
		StartedAt: started,
		EndedAt:   time.Now().UTC(),
		Events:    events,
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("s3blob: marshal session report: %w", err)
	}

	key := fmt.Sprintf("%s/session-%s.json", a.prefix, started.Format("20060102T150405Z"))

	_, err = a.client.S3().PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.client.Bucket()),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3blob: upload session report %s: %w", key, err)
	}
	return nil
}
