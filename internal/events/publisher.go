// Package events publishes offboarding audit events to Kafka so downstream
// compliance consumers get a durable feed independent of the local audit
// trail document. Publishing is best-effort from the engine's point of view:
// the trail and the tracked set are the system of record, the event stream
// is observability.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"offramp/pkg/domain"
)

// Topic is the audit event stream.
const Topic = "offramp.audit"

// Event actions.
const (
	ActionIdentityDisabled   = "identity_disabled"
	ActionHoldApplied        = "hold_applied"
	ActionVerificationFailed = "verification_failed"
	ActionCycleCompleted     = "cycle_completed"
)

// Event is one audit event on the stream.
type Event struct {
	ID        string               `json:"id"`
	Action    string               `json:"action"`
	Principal domain.PrincipalName `json:"principal,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
	Detail    string               `json:"detail,omitempty"`
}

// Emitter is what producers of audit events depend on. A nil *Publisher is a
// valid no-op Emitter, so callers never branch on configuration.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// producer is the kgo client surface the publisher uses.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Publisher writes events to the audit topic.
type Publisher struct {
	client producer
	logger *slog.Logger
	clock  func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(p *Publisher) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// New connects a publisher to the given brokers and makes sure the audit
// topic exists. Returns nil when no brokers are configured.
func New(ctx context.Context, brokers []string, opts ...Option) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	if err := ensureTopic(ctx, client); err != nil {
		client.Close()
		return nil, err
	}
	return newPublisher(client, opts...), nil
}

func newPublisher(client producer, opts ...Option) *Publisher {
	p := &Publisher{
		client: client,
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ensureTopic(ctx context.Context, client *kgo.Client) error {
	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopics(ctx, 1, 1, nil, Topic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	for _, res := range resp {
		// Already existing is fine; the topic is shared infrastructure.
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create audit topic %s: %w", res.Topic, res.Err)
		}
	}
	return nil
}

// Emit publishes one event, keyed by principal so per-identity ordering is
// preserved across partitions. Safe on a nil receiver.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if p == nil {
		return nil
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.clock().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	rec := &kgo.Record{
		Topic: Topic,
		Key:   []byte(event.Principal),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		p.logger.ErrorContext(ctx, "audit event publish failed",
			"action", event.Action,
			"principal", event.Principal.String(),
			"error", err,
		)
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

// Close releases the kafka client.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if c, ok := p.client.(*kgo.Client); ok {
		c.Close()
	}
}
