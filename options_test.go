package goSession

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreOptionsFilter(t *testing.T) {
	in := StoreOptions{
		OptEX:          10,
		OptNX:          true,
		OptPX:          nil,
		"secure":       true,
		"domain":       "example.com",
		OptExpireAfter: 30,
	}

	out, dropped := in.Filter()

	assert.Equal(t, StoreOptions{OptEX: 10, OptNX: true, OptExpireAfter: 30}, out)
	assert.Equal(t, []string{"domain", OptPX, "secure"}, dropped)
	assert.Len(t, in, 6, "Filter must not modify its receiver")
}

func TestSetArgs(t *testing.T) {
	s, _, _ := newTestStore(t, nil)

	cases := []struct {
		name string
		opts StoreOptions
		mode string
		ttl  time.Duration
		keep bool
	}{
		{name: "nothing", opts: nil},
		{name: "ex seconds", opts: StoreOptions{OptEX: 30}, ttl: 30 * time.Second},
		{name: "px milliseconds", opts: StoreOptions{OptPX: int64(250)}, ttl: 250 * time.Millisecond},
		{name: "duration value", opts: StoreOptions{OptExpiresIn: 2 * time.Minute}, ttl: 2 * time.Minute},
		{name: "float seconds", opts: StoreOptions{OptExpireAfter: 1.5}, ttl: 1500 * time.Millisecond},
		{name: "decimal string", opts: StoreOptions{OptEX: "12"}, ttl: 12 * time.Second},
		{name: "duration string", opts: StoreOptions{OptExpiresIn: "1m30s"}, ttl: 90 * time.Second},
		{name: "unsigned", opts: StoreOptions{OptEX: uint8(7)}, ttl: 7 * time.Second},
		{name: "px beats ex", opts: StoreOptions{OptEX: 30, OptPX: 100}, ttl: 100 * time.Millisecond},
		{name: "ex beats expires_in", opts: StoreOptions{OptEX: 30, OptExpiresIn: 60}, ttl: 30 * time.Second},
		{name: "expires_in beats expire_after", opts: StoreOptions{OptExpiresIn: 60, OptExpireAfter: 5}, ttl: time.Minute},
		{name: "nx", opts: StoreOptions{OptNX: true}, mode: "NX"},
		{name: "xx", opts: StoreOptions{OptXX: true}, mode: "XX"},
		{name: "false flags", opts: StoreOptions{OptNX: false, OptXX: false, OptKeepTTL: false}},
		{name: "keepttl", opts: StoreOptions{OptKeepTTL: true}, keep: true},
		{name: "unknown ignored", opts: StoreOptions{"httponly": "yes", OptEX: 3}, ttl: 3 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args, err := s.setArgs(tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.mode, args.Mode)
			assert.Equal(t, tc.ttl, args.TTL)
			assert.Equal(t, tc.keep, args.KeepTTL)
		})
	}
}

func TestSetArgsRejectsUnusableValues(t *testing.T) {
	s, _, _ := newTestStore(t, nil)

	cases := map[string]StoreOptions{
		"string flag":        {OptNX: "true"},
		"word ttl":           {OptEX: "later"},
		"negative ttl":       {OptEX: -5},
		"zero ttl":           {OptPX: 0},
		"slice ttl":          {OptExpireAfter: []int{1}},
		"nx and xx":          {OptNX: true, OptXX: true},
		"keepttl with a ttl": {OptKeepTTL: true, OptEX: 10},
		"overflowing ex":     {OptEX: int64(math.MaxInt64 / 2)},
		"overflowing px":     {OptPX: uint64(math.MaxUint64)},
		"overflowing float":  {OptExpiresIn: 1e300},
		"overflowing string": {OptEX: "1e30"},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.setArgs(opts)
			assert.ErrorIs(t, err, ErrInvalidStoreOption)
		})
	}
}

func TestSetArgsDefaultTTL(t *testing.T) {
	s, _, _ := newTestStore(t, func(cfg *Config) { cfg.DefaultTTL = time.Hour })

	args, err := s.setArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, args.TTL)

	args, err = s.setArgs(StoreOptions{OptEX: 5})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, args.TTL)

	args, err = s.setArgs(StoreOptions{OptKeepTTL: true})
	require.NoError(t, err)
	assert.Zero(t, args.TTL)
	assert.True(t, args.KeepTTL)
}
