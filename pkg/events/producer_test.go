package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs     []kafka.Message
	err      error
	closed   bool
	deadline time.Time
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.deadline, _ = ctx.Deadline()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

// stalledWriter blocks like a broker that never acknowledges.
type stalledWriter struct {
	fakeWriter
}

func (w *stalledWriter) WriteMessages(ctx context.Context, _ ...kafka.Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	ev := OrderEvent{Type: TypeOrderCreated, OrderID: "o-1", TotalAmount: 25000}
	require.NoError(t, p.PublishEvent(context.Background(), "parent-1", ev))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "parent-1", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "order_created", got["type"])
	assert.EqualValues(t, 25000, got["total_amount"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishEvent_WriteError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}}

	err := p.PublishEvent(context.Background(), "k", OrderEvent{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestProducer_PublishEvent_Timeout(t *testing.T) {
	w := &stalledWriter{}
	p := &Producer{writer: w, timeout: 50 * time.Millisecond}

	start := time.Now()
	err := p.PublishEvent(context.Background(), "k", OrderEvent{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestProducer_PublishEvent_DefaultTimeout(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()
	require.NoError(t, p.PublishEvent(ctx, "k", OrderEvent{}))
	assert.WithinDuration(t, time.Now().Add(DefaultPublishTimeout), w.deadline, time.Second)
}

func TestProducer_PublishEvent_OutlivesCancelledRequest(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, timeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.PublishEvent(ctx, "k", OrderEvent{Type: TypeOrderCreated}))
	assert.Len(t, w.msgs, 1)
}

func TestProducer_PublishEvent_MarshalError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{}}

	err := p.PublishEvent(context.Background(), "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	require.NoError(t, p.PublishEvent(context.Background(), "k", nil))
}
