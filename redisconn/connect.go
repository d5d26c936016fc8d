package redisconn

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

// ParseServerURL splits a session server URL into go-redis options and the
// session namespace carried in the path after the database number.
func ParseServerURL(raw string) (*redis.Options, string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, "", ErrEmptyConnectionURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, "", errors.Join(ErrFailedToParseRedisConnString, err)
	}

	var namespace string
	if segs := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2); len(segs) == 2 {
		namespace = segs[1]
		u.Path = "/" + segs[0]
		u.RawPath = ""
	}

	opts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, "", errors.Join(ErrFailedToParseRedisConnString, err)
	}
	return opts, namespace, nil
}

// Connect builds a client from cfg and pings it until it answers, backing
// off exponentially between attempts. It returns the client together with
// the namespace from the URL.
func Connect(ctx context.Context, cfg Config) (*redis.Client, string, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	opts, namespace, err := ParseServerURL(cfg.ServerURL)
	if err != nil {
		return nil, "", err
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.PoolTimeout > 0 {
		opts.PoolTimeout = cfg.PoolTimeout
	}

	var client *redis.Client
	err = retry.Do(ctx, connectBackoff(cfg), func(ctx context.Context) error {
		c := redis.NewClient(opts)
		if err := c.Ping(ctx).Err(); err != nil {
			_ = c.Close()
			return retry.RetryableError(err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, "", errors.Join(ErrRedisNotReady, err)
	}
	return client, namespace, nil
}

func connectBackoff(cfg Config) retry.Backoff {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var b retry.Backoff
	if cfg.RetryInterval > 0 {
		b = retry.NewExponential(cfg.RetryInterval)
	} else {
		b = retry.BackoffFunc(func() (time.Duration, bool) { return 0, false })
	}
	return retry.WithMaxRetries(uint64(attempts-1), b)
}

// Healthcheck returns a probe that pings client.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := client.Ping(ctx).Result(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
