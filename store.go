package goSession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/MrEthical07/goSession/codec"
	"github.com/MrEthical07/goSession/internal"
	"github.com/redis/go-redis/v9"
)

// Store persists session data in Redis.
//
// A Store is safe for concurrent use. Create one with New().Build().
type Store struct {
	cfg     Config
	rdb     redis.UniversalClient
	codec   codec.Codec
	locker  sync.Locker
	newID   IDGenerator
	logger  *slog.Logger
	metrics *Metrics
	audit   *auditQueue

	// beforeExec runs between the read and EXEC of every commit attempt.
	// Tests use it to force conflicts.
	beforeExec func(attempt int)
}

// Config returns a copy of the configuration the Store was built with.
func (s *Store) Config() Config {
	return cloneConfig(s.cfg)
}

// ParseID builds the configured identifier variant from a public id a client
// presented. An empty id, or one shaped like a storage key, yields nil so
// the request starts a fresh session.
func (s *Store) ParseID(public string) Identifier {
	if internal.ValidateToken(public) != nil {
		return nil
	}
	return s.cfg.Scheme.identifier(public)
}

// Ping checks that Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// MetricsSnapshot returns the current counters of this Store.
func (s *Store) MetricsSnapshot() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// AuditDropped returns the number of audit events dropped on a full buffer.
func (s *Store) AuditDropped() uint64 {
	return s.audit.Dropped()
}

// Close flushes pending audit events. It does not close the Redis client,
// which the caller owns.
func (s *Store) Close() {
	s.audit.Close()
}

func (s *Store) key(k string) string {
	return s.cfg.Namespace + ":" + k
}

func (s *Store) candidate() (Identifier, error) {
	public, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIDGeneration, err)
	}
	if public == "" {
		return nil, fmt.Errorf("%w: empty id", ErrIDGeneration)
	}
	return s.cfg.Scheme.identifier(public), nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// get fetches and decodes one key. A missing key is reported as ok=false.
func (s *Store) get(ctx context.Context, c getter, key string) (Data, bool, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	m, err := s.codec.Decode(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decode session: %w", err)
	}
	return Data(m), true, nil
}

// deleteKeys removes every key id may occupy. Keys are deleted one command
// each so the pipeline also works against a cluster.
func (s *Store) deleteKeys(ctx context.Context, id Identifier) (int64, error) {
	keys := id.DeleteKeys()
	cmds := make([]*redis.IntCmd, 0, len(keys))
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			cmds = append(cmds, p.Del(ctx, s.key(k)))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	var n int64
	for _, c := range cmds {
		n += c.Val()
	}
	return n, nil
}
