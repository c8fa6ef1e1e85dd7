// Package redisclient opens Redis connections for the read-side cache.
package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options configures the connection and its startup retry policy.
type Options struct {
	Addr     string
	Password string
	DB       int

	// MaxElapsedTime bounds the startup retries. Zero means one minute.
	MaxElapsedTime time.Duration
}

// Connect creates a client and pings it with exponential backoff until the
// server answers or MaxElapsedTime passes.
func Connect(ctx context.Context, opts Options, logger *zap.Logger) (*redis.Client, error) {
	const operation = "redisclient.Connect"

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     50,
		MinIdleConns: 5,
	})

	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = opts.MaxElapsedTime
	if policy.MaxElapsedTime == 0 {
		policy.MaxElapsedTime = time.Minute
	}

	logger.Info("Connecting to Redis...", zap.String("addr", opts.Addr))

	err := backoff.RetryNotify(
		func() error {
			return client.Ping(ctx).Err()
		},
		backoff.WithContext(policy, ctx),
		func(err error, next time.Duration) {
			logger.Warn("Redis ping failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	logger.Info("Connected to Redis")
	return client, nil
}
