// Package usage records API token last-used timestamps off the request path.
package usage

import (
	"context"
	"sync"
	"time"

	"github.com/lumishop/shopadmin/internal/shared/goroutine"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

const (
	DefaultQueueSize = 1024

	// UpdateTimeout bounds each individual write.
	UpdateTimeout = 3 * time.Second
)

// LastUsedWriter persists the last-used timestamp of a token.
type LastUsedWriter interface {
	UpdateLastUsed(ctx context.Context, tokenID uint, usedAt time.Time) error
}

// Event is one authenticated use of a token.
type Event struct {
	TokenID uint
	UsedAt  time.Time
}

// Recorder drains a bounded queue of Events into a LastUsedWriter from a single worker.
type Recorder struct {
	writer  LastUsedWriter
	logger  logger.Interface
	queue   chan Event
	timeout time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	mu        sync.RWMutex
	stopped   bool
	done      <-chan struct{}
}

func NewRecorder(writer LastUsedWriter, queueSize int, log logger.Interface) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Recorder{
		writer:  writer,
		logger:  log,
		queue:   make(chan Event, queueSize),
		timeout: UpdateTimeout,
	}
}

// Start launches the worker. Calling it more than once has no effect.
func (r *Recorder) Start() {
	r.startOnce.Do(func() {
		r.done = goroutine.SafeGoDone(r.logger, "usage-recorder", r.run)
		r.logger.Infow("usage recorder started", "queue_size", cap(r.queue))
	})
}

// Enqueue never blocks. It reports false when the event was dropped.
func (r *Recorder) Enqueue(tokenID uint, usedAt time.Time) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		return false
	}

	select {
	case r.queue <- Event{TokenID: tokenID, UsedAt: usedAt}:
		return true
	default:
		r.logger.Warnw("usage queue full, dropping last-used update",
			"token_id", tokenID,
			"queue_size", cap(r.queue),
		)
		return false
	}
}

// Stop closes the queue and waits until every queued event has been written.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		close(r.queue)
		r.mu.Unlock()

		if r.done != nil {
			<-r.done
		} else {
			// Never started: drain inline.
			r.run()
		}
		r.logger.Infow("usage recorder stopped")
	})
}

func (r *Recorder) run() {
	for ev := range r.queue {
		r.write(ev)
	}
}

func (r *Recorder) write(ev Event) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorw("panic while updating token last used", "token_id", ev.TokenID, "panic", p)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.writer.UpdateLastUsed(ctx, ev.TokenID, ev.UsedAt); err != nil {
		r.logger.Warnw("failed to update token last used",
			"token_id", ev.TokenID,
			"error", err,
		)
	}
}
