// Package analytics publishes property-lookup events to Kafka. Events are
// fire-and-forget product telemetry: publish failures are logged, never
// surfaced to the request path.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Event is one property lookup as seen by the read API.
type Event struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	BBL              string    `json:"bbl"`
	Endpoint         string    `json:"endpoint"`
	TransactionCount int       `json:"transactionCount"`
	TaxRowCount      int       `json:"taxRowCount"`
	Degraded         bool      `json:"degraded"`
	ClientPlatform   string    `json:"clientPlatform,omitempty"`
	RequestID        string    `json:"requestId,omitempty"`
}

// producer is the subset of the Kafka client the publisher needs; tests
// substitute a recorder.
type producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// Publisher emits lookup events to a single topic. A nil *Publisher is a
// valid no-op, so callers never branch on whether analytics is configured.
type Publisher struct {
	client producer
	admin  *kadm.Client
	topic  string
	logger *slog.Logger
}

// NewPublisher connects to the brokers and returns a publisher for topic.
func NewPublisher(seeds []string, topic string, logger *slog.Logger) (*Publisher, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("at least one broker seed is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{
		client: client,
		admin:  kadm.NewClient(client),
		topic:  topic,
		logger: logger,
	}, nil
}

// EnsureTopic creates the lookup topic if it does not exist yet.
func (p *Publisher) EnsureTopic(ctx context.Context) error {
	if p == nil || p.admin == nil {
		return nil
	}
	resp, err := p.admin.CreateTopic(ctx, 1, 1, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", p.topic, resp.Err)
	}
	return nil
}

// Emit publishes one lookup event without waiting for the broker.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.WarnContext(ctx, "encode lookup event failed", "error", err.Error())
		return
	}

	p.client.Produce(context.WithoutCancel(ctx), &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.BBL),
		Value: payload,
	}, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("publish lookup event failed", "error", err.Error())
		}
	})
}

// Close flushes outstanding records and closes the broker connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if c, ok := p.client.(*kgo.Client); ok {
		c.Close()
	}
}

// ClientPlatform condenses a User-Agent header into a coarse platform label
// for the event stream, e.g. "Macintosh/Chrome". Empty input yields "".
func ClientPlatform(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, _ := ua.Browser()
	platform := ua.Platform()
	switch {
	case platform != "" && name != "":
		return platform + "/" + name
	case platform != "":
		return platform
	default:
		return name
	}
}
