package goSession

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store option keys understood by the SET calls. Anything else in a
// StoreOptions bag is dropped before it reaches Redis.
const (
	OptEX          = "ex"
	OptPX          = "px"
	OptNX          = "nx"
	OptXX          = "xx"
	OptKeepTTL     = "keepttl"
	OptExpireAfter = "expire_after"
	OptExpiresIn   = "expires_in"
)

var allowedStoreOptions = map[string]struct{}{
	OptEX:          {},
	OptPX:          {},
	OptNX:          {},
	OptXX:          {},
	OptKeepTTL:     {},
	OptExpireAfter: {},
	OptExpiresIn:   {},
}

// ttlPrecedence lists TTL keys from strongest to weakest. The first present key wins.
var ttlPrecedence = []string{OptPX, OptEX, OptExpiresIn, OptExpireAfter}

// StoreOptions is the per-call option bag forwarded to SET.
//
// TTL keys accept time.Duration, integers, floats and decimal or duration
// strings. Integers count seconds, except px which counts milliseconds.
// nx, xx and keepttl accept bool.
type StoreOptions map[string]any

// Options are the per-request directives of a session middleware.
type Options struct {
	// Skip bypasses persistence on read.
	Skip bool
	// Drop suppresses issuing a replacement identifier on delete.
	Drop bool
	// Store is layered over the store-wide defaults for SET calls.
	Store StoreOptions
	// Snapshot is the read-time copy of the session used by MergeDiff.
	Snapshot Data
}

// Filter returns the allow-listed, non-nil entries of o and the sorted names
// of everything it removed.
func (o StoreOptions) Filter() (StoreOptions, []string) {
	out := make(StoreOptions, len(o))
	var dropped []string
	for k, v := range o {
		if _, ok := allowedStoreOptions[k]; !ok || v == nil {
			dropped = append(dropped, k)
			continue
		}
		out[k] = v
	}
	sort.Strings(dropped)
	return out, dropped
}

// setArgs turns per-call options into go-redis SET arguments. It applies the
// configured default TTL when the call names neither a TTL nor keepttl.
func (s *Store) setArgs(opts StoreOptions) (redis.SetArgs, error) {
	filtered, dropped := opts.Filter()
	if len(dropped) > 0 {
		s.logger.Debug("dropped store options", "op", "set", "options", dropped)
	}

	var args redis.SetArgs

	nx, err := boolOption(filtered, OptNX)
	if err != nil {
		return args, err
	}
	xx, err := boolOption(filtered, OptXX)
	if err != nil {
		return args, err
	}
	if nx && xx {
		return args, fmt.Errorf("%w: nx and xx are mutually exclusive", ErrInvalidStoreOption)
	}
	switch {
	case nx:
		args.Mode = "NX"
	case xx:
		args.Mode = "XX"
	}

	if args.KeepTTL, err = boolOption(filtered, OptKeepTTL); err != nil {
		return args, err
	}

	for _, key := range ttlPrecedence {
		v, ok := filtered[key]
		if !ok {
			continue
		}
		unit := time.Second
		if key == OptPX {
			unit = time.Millisecond
		}
		if args.TTL, err = coerceTTL(key, v, unit); err != nil {
			return args, err
		}
		break
	}

	if args.KeepTTL && args.TTL > 0 {
		return args, fmt.Errorf("%w: keepttl cannot be combined with a ttl", ErrInvalidStoreOption)
	}
	if !args.KeepTTL && args.TTL == 0 {
		args.TTL = s.cfg.DefaultTTL
	}
	return args, nil
}

func boolOption(o StoreOptions, key string) (bool, error) {
	v, ok := o[key]
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be bool, got %T", ErrInvalidStoreOption, key, v)
	}
	return b, nil
}

func coerceTTL(key string, v any, unit time.Duration) (time.Duration, error) {
	var (
		d   time.Duration
		err error
	)

	switch x := v.(type) {
	case time.Duration:
		d = x
	case string:
		s := strings.TrimSpace(x)
		if f, perr := strconv.ParseFloat(s, 64); perr == nil {
			if d, err = floatTTL(key, f, unit); err != nil {
				return 0, err
			}
		} else if pd, err := time.ParseDuration(s); err == nil {
			d = pd
		} else {
			return 0, fmt.Errorf("%w: %s=%q is not a duration", ErrInvalidStoreOption, key, x)
		}
	default:
		rv := reflect.ValueOf(v)
		limit := int64(math.MaxInt64 / unit)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n := rv.Int()
			if n > limit {
				return 0, ttlTooLarge(key)
			}
			d = time.Duration(n) * unit
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n := rv.Uint()
			if n > uint64(limit) {
				return 0, ttlTooLarge(key)
			}
			d = time.Duration(n) * unit
		case reflect.Float32, reflect.Float64:
			if d, err = floatTTL(key, rv.Float(), unit); err != nil {
				return 0, err
			}
		default:
			return 0, fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidStoreOption, key, v)
		}
	}

	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive", ErrInvalidStoreOption, key)
	}
	return d, nil
}

func floatTTL(key string, f float64, unit time.Duration) (time.Duration, error) {
	ns := f * float64(unit)
	if math.IsNaN(ns) {
		return 0, fmt.Errorf("%w: %s is not a number", ErrInvalidStoreOption, key)
	}
	if ns >= math.MaxInt64 {
		return 0, ttlTooLarge(key)
	}
	return time.Duration(ns), nil
}

func ttlTooLarge(key string) error {
	return fmt.Errorf("%w: %s is too large", ErrInvalidStoreOption, key)
}
