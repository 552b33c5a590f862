package usage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type recordingWriter struct {
	mu      sync.Mutex
	calls   []Event
	err     error
	block   chan struct{}
	started chan struct{}
}

func (w *recordingWriter) UpdateLastUsed(ctx context.Context, tokenID uint, usedAt time.Time) error {
	if w.started != nil {
		select {
		case w.started <- struct{}{}:
		default:
		}
	}
	if w.block != nil {
		select {
		case <-w.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, Event{TokenID: tokenID, UsedAt: usedAt})
	return w.err
}

func (w *recordingWriter) Calls() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Event(nil), w.calls...)
}

func TestRecorder_StopDrainsQueue(t *testing.T) {
	writer := &recordingWriter{}
	rec := NewRecorder(writer, 16, logger.NewNop())
	rec.Start()

	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	for i := uint(1); i <= 5; i++ {
		assert.True(t, rec.Enqueue(i, now))
	}
	rec.Stop()

	calls := writer.Calls()
	require.Len(t, calls, 5)
	assert.Equal(t, uint(1), calls[0].TokenID)
	assert.Equal(t, uint(5), calls[4].TokenID)
}

func TestRecorder_EnqueueDoesNotBlockWhenFull(t *testing.T) {
	writer := &recordingWriter{block: make(chan struct{}), started: make(chan struct{}, 1)}
	rec := NewRecorder(writer, 1, logger.NewNop())
	rec.Start()

	// First event is picked up by the worker, which then blocks inside the writer.
	require.True(t, rec.Enqueue(1, time.Now()))
	<-writer.started

	require.True(t, rec.Enqueue(2, time.Now()))

	done := make(chan bool)
	go func() { done <- rec.Enqueue(3, time.Now()) }()

	select {
	case accepted := <-done:
		assert.False(t, accepted)
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	close(writer.block)
	rec.Stop()
	assert.Len(t, writer.Calls(), 2)
}

func TestRecorder_WriterErrorIsNotFatal(t *testing.T) {
	writer := &recordingWriter{err: errors.New("db down")}
	rec := NewRecorder(writer, 4, logger.NewNop())
	rec.Start()

	rec.Enqueue(1, time.Now())
	rec.Enqueue(2, time.Now())
	rec.Stop()

	assert.Len(t, writer.Calls(), 2)
}

func TestRecorder_EnqueueAfterStop(t *testing.T) {
	rec := NewRecorder(&recordingWriter{}, 4, logger.NewNop())
	rec.Start()
	rec.Stop()
	rec.Stop()

	assert.False(t, rec.Enqueue(1, time.Now()))
}

func TestRecorder_StopWithoutStartDrains(t *testing.T) {
	writer := &recordingWriter{}
	rec := NewRecorder(writer, 4, logger.NewNop())

	rec.Enqueue(7, time.Now())
	rec.Stop()

	require.Len(t, writer.Calls(), 1)
	assert.Equal(t, uint(7), writer.Calls()[0].TokenID)
}
