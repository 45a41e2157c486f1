package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"offramp/pkg/domain"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.records = append(f.records, rs...)
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEmitPublishesKeyedRecord(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	fake := &fakeProducer{}
	pub := newPublisher(fake, WithClock(fixedClock(now)), WithLogger(slog.New(slog.DiscardHandler)))

	err := pub.Emit(context.Background(), Event{
		Action:    ActionHoldApplied,
		Principal: domain.PrincipalName("jsmith"),
		Detail:    "hold applied for 61320h0m0s",
	})
	require.NoError(t, err)
	require.Len(t, fake.records, 1)

	rec := fake.records[0]
	assert.Equal(t, Topic, rec.Topic)
	assert.Equal(t, "jsmith", string(rec.Key))

	var got Event
	require.NoError(t, json.Unmarshal(rec.Value, &got))
	assert.Equal(t, ActionHoldApplied, got.Action)
	assert.Equal(t, domain.PrincipalName("jsmith"), got.Principal)
	assert.Equal(t, now, got.Timestamp)
	assert.NotEmpty(t, got.ID)
}

func TestEmitKeepsCallerTimestampAndID(t *testing.T) {
	fake := &fakeProducer{}
	pub := newPublisher(fake, WithLogger(slog.New(slog.DiscardHandler)))

	ts := time.Date(2025, 11, 3, 12, 30, 0, 0, time.UTC)
	err := pub.Emit(context.Background(), Event{
		ID:        "evt-1",
		Action:    ActionCycleCompleted,
		Timestamp: ts,
	})
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal(fake.records[0].Value, &got))
	assert.Equal(t, "evt-1", got.ID)
	assert.Equal(t, ts, got.Timestamp)
	assert.Empty(t, fake.records[0].Key)
}

func TestEmitReturnsProduceError(t *testing.T) {
	fake := &fakeProducer{err: errors.New("broker down")}
	pub := newPublisher(fake, WithLogger(slog.New(slog.DiscardHandler)))

	err := pub.Emit(context.Background(), Event{Action: ActionIdentityDisabled})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish audit event")
}

func TestNilPublisherIsNoOp(t *testing.T) {
	var pub *Publisher
	assert.NoError(t, pub.Emit(context.Background(), Event{Action: ActionHoldApplied}))
	pub.Close()
}
