package goSession

import (
	"context"
	"fmt"
	"strconv"
)

// DeleteSession removes every key id may occupy, the legacy public key of a
// SecureID included.
//
// It returns a replacement identifier, or nil when opts.Drop is set to end
// the session for good. If Redis refuses the connection it returns (nil, nil).
func (s *Store) DeleteSession(ctx context.Context, opts Options, id Identifier) (Identifier, error) {
	if id == nil {
		return nil, ErrNilIdentifier
	}

	return WithLock(ctx, s, Identifier(nil), func(ctx context.Context) (Identifier, error) {
		n, err := s.deleteKeys(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("delete session: %w", err)
		}
		s.metrics.Inc(MetricSessionDeleted)
		s.emitAudit(ctx, EventSessionDeleted, id, nil, map[string]string{
			"keys_removed": strconv.FormatInt(n, 10),
			"drop":         strconv.FormatBool(opts.Drop),
		})

		if opts.Drop {
			return nil, nil
		}
		for {
			next, err := s.generateUniqueID(ctx, nil, nil)
			if err != nil {
				return nil, err
			}
			if next.PublicID() != id.PublicID() {
				return next, nil
			}
		}
	})
}
