package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// BrokenReferenceEvent is published for every reference whose local target
// does not exist after a transform.
type BrokenReferenceEvent struct {
	Document  string    `json:"document"`
	Reference string    `json:"reference"`
	Target    string    `json:"target"`
	Tag       string    `json:"tag"`
	Attribute string    `json:"attribute"`
	BuildID   string    `json:"build_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers broken-reference events to an external sink.
type Publisher interface {
	PublishBroken(ctx context.Context, event *BrokenReferenceEvent) error
	Close() error
}

// NATSPublisher publishes events to a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to the broker at url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("deskwrap-verify"),
		nats.Timeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	slog.Debug("Connected to NATS", slog.String("url", url), slog.String("subject", subject))
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// PublishBroken sends one event. The timestamp is stamped here so callers
// only describe the finding.
func (p *NATSPublisher) PublishBroken(_ context.Context, event *BrokenReferenceEvent) error {
	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling broken reference event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publishing broken reference event: %w", err)
	}
	return nil
}

// Close flushes pending publishes before disconnecting.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
