package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	pending []Event
	sent    []int64
	failed  map[int64]string
}

func (s *memStore) LockBatch(_ context.Context, _ string, batchSize int, _ time.Duration) ([]Event, error) {
	n := batchSize
	if n > len(s.pending) {
		n = len(s.pending)
	}
	batch := s.pending[:n]
	s.pending = s.pending[n:]
	return batch, nil
}

func (s *memStore) MarkSent(_ context.Context, ids []int64) error {
	s.sent = append(s.sent, ids...)
	return nil
}

func (s *memStore) MarkFailed(_ context.Context, id int64, errMsg string) error {
	s.failed[id] = errMsg
	return nil
}

type memProducer struct {
	messages []kafka.Message
	failKey  string
}

func (p *memProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		if string(m.Key) == p.failKey {
			return errors.New("broker unavailable")
		}
	}
	p.messages = append(p.messages, msgs...)
	return nil
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestRelayFlush_DispatchesAndMarks(t *testing.T) {
	store := &memStore{
		pending: []Event{
			{ID: 1, AggregateID: "100", Type: "order.completed", Payload: []byte(`{}`), Traceparent: "00-abc-def-01"},
			{ID: 2, AggregateID: "101", Type: "order.failed", Payload: []byte(`{}`)},
			{ID: 3, AggregateID: "102", Type: "order.completed", Payload: []byte(`{}`)},
		},
		failed: map[int64]string{},
	}
	producer := &memProducer{failKey: "101"}
	relay := NewRelay(store, NewDispatcher(producer, "bayarcash.order-events"), "relay-1", time.Second).WithBatchSize(2)

	sent, err := relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []int64{1}, store.sent)
	assert.Contains(t, store.failed[2], "broker unavailable")

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "bayarcash.order-events", msg.Topic)
	assert.Equal(t, "100", string(msg.Key))
	assert.Equal(t, "order.completed", header(msg, "event_type"))
	assert.Equal(t, "00-abc-def-01", header(msg, "traceparent"))

	sent, err = relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []int64{1, 3}, store.sent)
}

func TestRelayFlush_EmptyBatch(t *testing.T) {
	store := &memStore{failed: map[int64]string{}}
	relay := NewRelay(store, NewDispatcher(&memProducer{}, "t"), "relay-1", 0)

	sent, err := relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}
