package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AriadnaNaya/BDD2/internal/ledger"
)

type MockOutboxSource struct {
	Events       []*ledger.OutboxEvent
	FetchErr     error
	MarkErr      error
	ProcessedIDs []int64
}

func (m *MockOutboxSource) UnprocessedEvents(_ context.Context, _ int) ([]*ledger.OutboxEvent, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	events := m.Events
	m.Events = nil
	return events, nil
}

func (m *MockOutboxSource) MarkEventProcessed(_ context.Context, id int64) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.ProcessedIDs = append(m.ProcessedIDs, id)
	return nil
}

type MockWriter struct {
	Written  []kafka.Message
	WriteErr error
}

func (m *MockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Written = append(m.Written, msgs...)
	return nil
}

func newTestPoller(source OutboxSource, writer messageWriter) *OutboxPoller {
	return &OutboxPoller{
		tick:   time.Second,
		batch:  100,
		source: source,
		writer: writer,
	}
}

func orderEvent(id int64) *ledger.OutboxEvent {
	return &ledger.OutboxEvent{
		ID:          id,
		AggregateID: "order-abc",
		EventType:   "order.created",
		Payload:     []byte(`{"order_id":"order-abc","total":25}`),
	}
}

func TestProcessUnpublishedEvents_PublishesAndMarks(t *testing.T) {
	source := &MockOutboxSource{Events: []*ledger.OutboxEvent{orderEvent(1), orderEvent(2)}}
	writer := &MockWriter{}
	poller := newTestPoller(source, writer)

	poller.processUnpublishedEvents(context.Background())

	require.Len(t, writer.Written, 2)
	assert.Equal(t, []byte("order-abc"), writer.Written[0].Key)
	assert.Equal(t, []byte(`{"order_id":"order-abc","total":25}`), writer.Written[0].Value)
	require.Len(t, writer.Written[0].Headers, 1)
	assert.Equal(t, "event_type", writer.Written[0].Headers[0].Key)
	assert.Equal(t, []byte("order.created"), writer.Written[0].Headers[0].Value)

	assert.Equal(t, []int64{1, 2}, source.ProcessedIDs)
}

func TestProcessUnpublishedEvents_PublishFailureLeavesEventUnprocessed(t *testing.T) {
	source := &MockOutboxSource{Events: []*ledger.OutboxEvent{orderEvent(1)}}
	writer := &MockWriter{WriteErr: errors.New("broker unavailable")}
	poller := newTestPoller(source, writer)

	poller.processUnpublishedEvents(context.Background())

	assert.Empty(t, source.ProcessedIDs, "failed publish must not mark the event processed")
}

func TestProcessUnpublishedEvents_FetchFailureIsNotFatal(t *testing.T) {
	source := &MockOutboxSource{FetchErr: errors.New("db unavailable")}
	writer := &MockWriter{}
	poller := newTestPoller(source, writer)

	poller.processUnpublishedEvents(context.Background())

	assert.Empty(t, writer.Written)
}

func TestProcessUnpublishedEvents_MarkFailureStillPublishesRest(t *testing.T) {
	source := &MockOutboxSource{Events: []*ledger.OutboxEvent{orderEvent(1), orderEvent(2)}, MarkErr: errors.New("db blip")}
	writer := &MockWriter{}
	poller := newTestPoller(source, writer)

	poller.processUnpublishedEvents(context.Background())

	// Both still reach the broker; the consumer's dedup absorbs the
	// eventual re-publish.
	assert.Len(t, writer.Written, 2)
}
