package redisconn

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultServerURL is used when REDIS_URL is unset.
const DefaultServerURL = "redis://127.0.0.1:6379/0/session"

type Config struct {
	ServerURL      string        `env:"REDIS_URL" envDefault:"redis://127.0.0.1:6379/0/session"` // ServerURL is redis://[user:pass@]host:port/db[/namespace].
	PoolSize       int           `env:"REDIS_POOL_SIZE" envDefault:"0"`                          // PoolSize caps open connections. Zero keeps the go-redis default.
	PoolTimeout    time.Duration `env:"REDIS_POOL_TIMEOUT" envDefault:"0s"`                      // PoolTimeout bounds the wait for a free connection. Zero keeps the go-redis default.
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`                     // RetryAttempts is the number of pings Connect tries.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"500ms"`                 // RetryInterval is the first delay between pings, doubling each time.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`                  // ConnectTimeout bounds the whole Connect call.
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrFailedToParseRedisConnString, err)
	}
	return cfg, nil
}
