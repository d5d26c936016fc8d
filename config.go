package goSession

import (
	"fmt"
	"strings"
	"time"
)

// Config defines the behavior of a session Store.
//
// Config values are copied into the Store at Build time; later edits to the
// caller's copy have no effect. Env tags are read by ConfigFromEnv with the
// SESSION_ prefix.
type Config struct {
	// Namespace prefixes every key as "<Namespace>:<key>".
	Namespace string `env:"NAMESPACE"`
	// Scheme selects simple or secure identifiers.
	Scheme IDScheme `env:"SCHEME"`
	// IDFormat selects hex or uuid public ids.
	IDFormat IDFormat `env:"ID_FORMAT"`
	// DefaultTTL applies to writes whose options name neither a TTL nor keepttl.
	// Zero stores sessions without expiry.
	DefaultTTL time.Duration `env:"DEFAULT_TTL"`
	// Threadsafe selects transactional commits and enables the local lock.
	Threadsafe bool `env:"THREADSAFE"`
	// Multithreaded tells the store its callers run concurrently. The local
	// lock is only taken when both Multithreaded and Threadsafe are set.
	Multithreaded bool `env:"MULTITHREADED"`
	// MaxDataSize caps the encoded size of one session in bytes.
	MaxDataSize int `env:"MAX_DATA_SIZE"`

	Commit  CommitConfig  `envPrefix:"COMMIT_"`
	Metrics MetricsConfig `envPrefix:"METRICS_"`
	Audit   AuditConfig   `envPrefix:"AUDIT_"`
}

// CommitConfig tunes the optimistic commit loop of transactional writes.
type CommitConfig struct {
	Strategy MergeStrategy `env:"STRATEGY"`
	// MaxAttempts bounds WATCH/EXEC attempts. Zero retries until the commit wins.
	MaxAttempts int `env:"MAX_ATTEMPTS"`
	// Backoff is the first delay after a conflict, doubling per retry.
	// Zero retries immediately.
	Backoff time.Duration `env:"BACKOFF"`
	// MaxBackoff caps the delay. Zero leaves it uncapped.
	MaxBackoff time.Duration `env:"MAX_BACKOFF"`
}

// AuditConfig controls asynchronous audit event delivery.
type AuditConfig struct {
	Enabled    bool `env:"ENABLED"`
	BufferSize int  `env:"BUFFER_SIZE"`
	DropIfFull bool `env:"DROP_IF_FULL"`
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool `env:"ENABLED"`
	EnableLatencyHistograms bool `env:"LATENCY_HISTOGRAMS"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Namespace:     "session",
		Scheme:        SchemeSecure,
		IDFormat:      FormatHex,
		DefaultTTL:    0,
		Threadsafe:    true,
		Multithreaded: true,
		MaxDataSize:   64 << 10,
		Commit: CommitConfig{
			Strategy:    MergeShallow,
			MaxAttempts: 0,
			Backoff:     0,
			MaxBackoff:  0,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first unusable setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Namespace) == "" {
		return invalidConfig("Namespace must not be empty")
	}
	if strings.ContainsAny(c.Namespace, " \t\r\n") {
		return invalidConfig("Namespace must not contain whitespace")
	}
	if !c.Scheme.valid() {
		return invalidConfig(fmt.Sprintf("unsupported Scheme %q", c.Scheme))
	}
	if !c.IDFormat.valid() {
		return invalidConfig(fmt.Sprintf("unsupported IDFormat %q", c.IDFormat))
	}
	if c.DefaultTTL < 0 {
		return invalidConfig("DefaultTTL must be >= 0")
	}
	if c.MaxDataSize <= 0 {
		return invalidConfig("MaxDataSize must be > 0")
	}

	// Commit
	if !c.Commit.Strategy.valid() {
		return invalidConfig(fmt.Sprintf("unsupported Commit Strategy %q", c.Commit.Strategy))
	}
	if c.Commit.MaxAttempts < 0 {
		return invalidConfig("Commit MaxAttempts must be >= 0")
	}
	if c.Commit.Backoff < 0 || c.Commit.MaxBackoff < 0 {
		return invalidConfig("Commit backoff durations must be >= 0")
	}
	if c.Commit.MaxBackoff > 0 && c.Commit.MaxBackoff < c.Commit.Backoff {
		return invalidConfig("Commit MaxBackoff must be >= Backoff")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return invalidConfig("Audit BufferSize must be > 0 when audit is enabled")
	}
	return nil
}

func invalidConfig(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
