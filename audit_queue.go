package goSession

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// auditQueue hands events to the AuditSink from a single worker goroutine,
// so a slow sink never sits on a Redis round-trip or inside the store lock.
// Events reach the sink in publish order.
type auditQueue struct {
	sink       AuditSink
	logger     *slog.Logger
	dropIfFull bool

	events  chan AuditEvent
	stop    chan struct{}
	stopped sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool
	dropped atomic.Uint64
}

// newAuditQueue returns nil when auditing is disabled. A nil queue accepts
// and ignores every call.
func newAuditQueue(cfg AuditConfig, sink AuditSink, logger *slog.Logger) *auditQueue {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	q := &auditQueue{
		sink:       sink,
		logger:     logger,
		dropIfFull: cfg.DropIfFull,
		events:     make(chan AuditEvent, max(cfg.BufferSize, 1)),
		stop:       make(chan struct{}),
	}
	q.stopped.Add(1)
	go q.work()
	return q
}

func (q *auditQueue) work() {
	defer q.stopped.Done()
	ctx := context.Background()
	for {
		select {
		case ev := <-q.events:
			q.sink.Emit(ctx, ev)
		case <-q.stop:
			// Flush what was accepted before Close.
			for {
				select {
				case ev := <-q.events:
					q.sink.Emit(ctx, ev)
				default:
					return
				}
			}
		}
	}
}

// Publish enqueues ev. When the buffer is full it either drops ev or waits
// for room, ctx or Close, depending on DropIfFull.
func (q *auditQueue) Publish(ctx context.Context, ev AuditEvent) {
	if q == nil || q.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if q.dropIfFull {
		select {
		case q.events <- ev:
		case <-q.stop:
		default:
			q.dropped.Add(1)
			q.logger.DebugContext(ctx, "audit event dropped", "event", ev.EventType, "session", ev.SessionID)
		}
		return
	}

	select {
	case q.events <- ev:
	case <-ctx.Done():
	case <-q.stop:
	}
}

// Close stops accepting events and waits until the worker has flushed the
// buffer. Calling it again is a no-op.
func (q *auditQueue) Close() {
	if q == nil {
		return
	}
	q.once.Do(func() {
		q.closed.Store(true)
		close(q.stop)
		q.stopped.Wait()
	})
}

// Dropped counts events discarded on a full buffer.
func (q *auditQueue) Dropped() uint64 {
	if q == nil {
		return 0
	}
	return q.dropped.Load()
}
