package goSession

import (
	"context"
	"errors"
	"syscall"
)

// WithLock runs body inside the Store's concurrency guard.
//
// When the Store is configured Multithreaded and Threadsafe, the Store's
// locker is held for the whole body, Redis round-trips included. This
// serializes every local caller and is the main throughput cost of a
// threadsafe Store. It has no effect across processes.
//
// If body fails because Redis refused the connection, WithLock logs a
// warning and returns def with a nil error. Any other error is returned
// unchanged. The lock is released on every path.
func WithLock[T any](ctx context.Context, s *Store, def T, body func(ctx context.Context) (T, error)) (T, error) {
	if s.cfg.Multithreaded && s.cfg.Threadsafe {
		s.locker.Lock()
		defer s.locker.Unlock()
	}

	out, err := body(ctx)
	if err == nil {
		return out, nil
	}
	if IsUnreachable(err) {
		s.metrics.Inc(MetricStoreUnreachable)
		s.logger.WarnContext(ctx, "session store unreachable, continuing without persistence",
			"namespace", s.cfg.Namespace,
			"error", err,
		)
		s.emitAudit(ctx, EventStoreUnreachable, nil, err, nil)
		return def, nil
	}

	var zero T
	return zero, err
}

// IsUnreachable reports whether err is a refused connection. Dial timeouts,
// DNS failures and every other network error are not.
func IsUnreachable(err error) bool {
	return err != nil && errors.Is(err, syscall.ECONNREFUSED)
}
