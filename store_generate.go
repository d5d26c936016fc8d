package goSession

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// GenerateUniqueID returns an identifier no other session holds.
//
// For an empty seed it returns a fresh candidate without touching Redis;
// nothing is reserved because empty sessions are never stored. Otherwise it
// stores seed under each candidate with SET NX until one is accepted, so the
// uniqueness guarantee holds across processes. nx and xx in opts are ignored;
// the SET is always NX.
//
// GenerateUniqueID runs outside the concurrency guard and returns Redis
// errors as they are.
func (s *Store) GenerateUniqueID(ctx context.Context, seed Data, opts StoreOptions) (Identifier, error) {
	return s.generateUniqueID(ctx, seed, opts)
}

func (s *Store) generateUniqueID(ctx context.Context, seed Data, opts StoreOptions) (Identifier, error) {
	if seed.Empty() {
		return s.candidate()
	}

	args, err := s.setArgs(opts)
	if err != nil {
		return nil, err
	}
	args.Mode = "NX"

	raw, err := s.codec.Encode(seed)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	for {
		id, err := s.candidate()
		if err != nil {
			return nil, err
		}

		err = s.rdb.SetArgs(ctx, s.key(id.StorageKey()), raw, args).Err()
		if err == nil {
			s.metrics.Inc(MetricSessionCreated)
			s.emitAudit(ctx, EventSessionCreated, id, nil, nil)
			return id, nil
		}
		if !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("reserve session id: %w", err)
		}

		s.metrics.Inc(MetricIDCollision)
		s.logger.DebugContext(ctx, "session id collision", "op", "generate", "key", id.String())
	}
}
