package goSession

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goSession/internal"
)

type lookup struct {
	id   Identifier
	data Data
}

// FindSession resolves inbound to its stored data.
//
// With opts.Skip it returns a fresh identifier and empty data without any
// Redis access. Otherwise it consults inbound.LookupKeys in order; for a
// SecureID that is the private key, then the legacy public key. When nothing
// is found, or inbound is nil, it returns a new identifier and empty data.
//
// If Redis refuses the connection FindSession returns a nil identifier, empty
// data and a nil error, so the caller continues with a transient session.
func (s *Store) FindSession(ctx context.Context, opts Options, inbound Identifier) (Identifier, Data, error) {
	if opts.Skip {
		s.metrics.Inc(MetricSessionSkipped)
		id, err := s.candidate()
		if err != nil {
			return nil, nil, err
		}
		return id, Data{}, nil
	}

	// A storage key must never be echoed back as a public id.
	if inbound != nil && internal.ValidateToken(inbound.PublicID()) != nil {
		inbound = nil
	}

	res, err := WithLock(ctx, s, lookup{data: Data{}}, func(ctx context.Context) (lookup, error) {
		if inbound != nil {
			for i, k := range inbound.LookupKeys() {
				data, ok, err := s.get(ctx, s.rdb, s.key(k))
				if err != nil {
					return lookup{}, fmt.Errorf("find session: %w", err)
				}
				if !ok {
					continue
				}
				if i > 0 {
					s.metrics.Inc(MetricLegacyLookup)
				}
				s.metrics.Inc(MetricSessionLoaded)
				return lookup{id: inbound, data: data}, nil
			}
		}

		s.metrics.Inc(MetricSessionMiss)
		id, err := s.generateUniqueID(ctx, nil, nil)
		if err != nil {
			return lookup{}, err
		}
		return lookup{id: id, data: Data{}}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return res.id, res.data, nil
}
