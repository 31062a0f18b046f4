package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Options tunes the client and its startup ping loop. Zero values fall back to
// the package defaults.
type Options struct {
	Addr           string
	Password       string
	ConnectRetries int
	DialTimeout    time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

const (
	defaultConnectRetries = 5
	defaultDialTimeout    = 5 * time.Second
	defaultReadTimeout    = 3 * time.Second
	defaultWriteTimeout   = 3 * time.Second

	initialPingBackoff = 500 * time.Millisecond
)

func (o Options) withDefaults() Options {
	if o.ConnectRetries <= 0 {
		o.ConnectRetries = defaultConnectRetries
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = defaultDialTimeout
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = defaultReadTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = defaultWriteTimeout
	}
	return o
}

// Connect builds a client and verifies the connection with a retried ping,
// doubling the backoff between attempts. The context bounds the whole loop.
func Connect(ctx context.Context, opts Options, logger *zerolog.Logger) (*redis.Client, error) {
	opts = opts.withDefaults()

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})

	backoff := initialPingBackoff
	var err error
	for attempt := 1; attempt <= opts.ConnectRetries; attempt++ {
		if err = client.Ping(ctx).Err(); err == nil {
			logger.Info().Str("addr", opts.Addr).Int("attempt", attempt).Msg("redis connected")
			return client, nil
		}
		if attempt == opts.ConnectRetries {
			break
		}

		logger.Warn().Err(err).Int("attempt", attempt).Dur("backoff", backoff).Msg("redis ping failed, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("redis unreachable after %d attempts: %w", opts.ConnectRetries, err)
}
