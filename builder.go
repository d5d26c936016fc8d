package goSession

import (
	"io"
	"log/slog"
	"sync"

	"github.com/MrEthical07/goSession/codec"
	"github.com/redis/go-redis/v9"
)

// Builder assembles a Store.
//
// Builder instances are intended to be configured during initialization and
// used once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	logger    *slog.Logger
	locker    sync.Locker
	idGen     IDGenerator
	codec     codec.Codec
	auditSink AuditSink

	built bool
}

// New returns a Builder holding DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the client every operation uses. The Store never closes it.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithLogger sets the structured logger for debug and warning output.
//
// A nil logger discards output, which is also the default.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithLocker replaces the mutex that serializes local callers of a
// threadsafe, multithreaded Store.
func (b *Builder) WithLocker(l sync.Locker) *Builder {
	b.locker = l
	return b
}

// WithIDGenerator overrides the source of public ids. The generator must
// return cryptographically random, non-empty values.
func (b *Builder) WithIDGenerator(gen IDGenerator) *Builder {
	b.idGen = gen
	return b
}

// WithCodec overrides the session serializer. The default is codec.JSON
// limited to Config.MaxDataSize.
func (b *Builder) WithCodec(c codec.Codec) *Builder {
	b.codec = c
	return b
}

// WithAuditSink sets the audit destination. Audit must also be enabled in Config.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the commit latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns the Store.
//
// Build fails with ErrRedisRequired without a client, ErrInvalidConfig on a
// bad configuration and ErrBuilderUsed when called twice.
func (b *Builder) Build() (*Store, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, ErrRedisRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		cfg:     cfg,
		rdb:     b.redis,
		codec:   b.codec,
		locker:  b.locker,
		newID:   b.idGen,
		logger:  b.logger,
		metrics: NewMetrics(cfg.Metrics),
	}
	if s.codec == nil {
		s.codec = codec.JSON{MaxSize: cfg.MaxDataSize}
	}
	if s.locker == nil {
		s.locker = &sync.Mutex{}
	}
	if s.newID == nil {
		s.newID = cfg.IDFormat.generator()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.audit = newAuditQueue(cfg.Audit, b.auditSink, s.logger)

	b.built = true
	return s, nil
}
