package goSession

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

// CommitSession writes data with the path the Store is configured for:
// TransactionalWriteSession when Threadsafe, WriteSession otherwise.
func (s *Store) CommitSession(ctx context.Context, opts Options, id Identifier, data Data) (Identifier, error) {
	if s.cfg.Threadsafe {
		return s.TransactionalWriteSession(ctx, opts, id, data)
	}
	return s.WriteSession(ctx, opts, id, data)
}

// WriteSession overwrites the stored session with data in a single SET.
// Empty data removes the session instead. The last writer wins.
//
// A conditional SET that Redis declines (nx on an existing key, xx on a
// missing one) is not an error. If Redis refuses the connection
// WriteSession returns (nil, nil).
func (s *Store) WriteSession(ctx context.Context, opts Options, id Identifier, data Data) (Identifier, error) {
	if id == nil {
		return nil, ErrNilIdentifier
	}
	args, err := s.setArgs(opts.Store)
	if err != nil {
		return nil, err
	}

	return WithLock(ctx, s, Identifier(nil), func(ctx context.Context) (Identifier, error) {
		if data.Empty() {
			if _, err := s.deleteKeys(ctx, id); err != nil {
				return nil, fmt.Errorf("write session: %w", err)
			}
			s.metrics.Inc(MetricWriteDirect)
			return id, nil
		}

		raw, err := s.codec.Encode(data)
		if err != nil {
			return nil, fmt.Errorf("encode session: %w", err)
		}
		err = s.rdb.SetArgs(ctx, s.key(id.StorageKey()), raw, args).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("write session: %w", err)
		}
		s.metrics.Inc(MetricWriteDirect)
		return id, nil
	})
}

// TransactionalWriteSession merges data into the stored session under
// WATCH/MULTI/EXEC and retries when another writer commits in between.
//
// The configured MergeStrategy combines the stored value with data; MergeDiff
// also needs opts.Snapshot. An empty merge result deletes the key. Attempts
// and backoff follow Config.Commit; running out of attempts returns
// ErrCommitConflict. If Redis refuses the connection the call returns
// (nil, nil).
func (s *Store) TransactionalWriteSession(ctx context.Context, opts Options, id Identifier, data Data) (Identifier, error) {
	if id == nil {
		return nil, ErrNilIdentifier
	}
	args, err := s.setArgs(opts.Store)
	if err != nil {
		return nil, err
	}

	return WithLock(ctx, s, Identifier(nil), func(ctx context.Context) (Identifier, error) {
		start := time.Now()
		defer func() {
			s.metrics.Observe(MetricCommitLatency, time.Since(start))
		}()

		key := s.key(id.StorageKey())
		attempt := 0

		err := retry.Do(ctx, s.commitBackoff(), func(ctx context.Context) error {
			attempt++
			err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
				stored, _, err := s.get(ctx, tx, key)
				if err != nil {
					return err
				}
				merged := s.cfg.Commit.Strategy.Merge(stored, data, opts.Snapshot)

				var raw []byte
				if !merged.Empty() {
					if raw, err = s.codec.Encode(merged); err != nil {
						return fmt.Errorf("encode session: %w", err)
					}
				}

				if s.beforeExec != nil {
					s.beforeExec(attempt)
				}

				_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
					if raw == nil {
						p.Del(ctx, key)
						return nil
					}
					p.SetArgs(ctx, key, raw, args)
					return nil
				})
				return err
			}, key)

			switch {
			case err == nil, errors.Is(err, redis.Nil):
				return nil
			case errors.Is(err, redis.TxFailedErr):
				s.metrics.Inc(MetricCommitConflict)
				s.logger.DebugContext(ctx, "session commit conflict",
					"op", "commit",
					"key", id.String(),
					"attempt", attempt,
				)
				return retry.RetryableError(err)
			default:
				return err
			}
		})

		if errors.Is(err, redis.TxFailedErr) {
			s.metrics.Inc(MetricCommitExhausted)
			s.emitAudit(ctx, EventCommitConflictExhausted, id, err, map[string]string{
				"attempts": strconv.Itoa(attempt),
			})
			return nil, fmt.Errorf("%w after %d attempts", ErrCommitConflict, attempt)
		}
		if err != nil {
			return nil, fmt.Errorf("commit session: %w", err)
		}

		s.metrics.Inc(MetricWriteTransactional)
		return id, nil
	})
}

// commitBackoff builds a fresh retry policy for one commit.
func (s *Store) commitBackoff() retry.Backoff {
	c := s.cfg.Commit

	var b retry.Backoff
	if c.Backoff > 0 {
		b = retry.NewExponential(c.Backoff)
		if c.MaxBackoff > 0 {
			b = retry.WithCappedDuration(c.MaxBackoff, b)
		}
	} else {
		b = retry.BackoffFunc(func() (time.Duration, bool) {
			return 0, false
		})
	}

	if c.MaxAttempts > 0 {
		b = retry.WithMaxRetries(uint64(c.MaxAttempts-1), b)
	}
	return b
}
