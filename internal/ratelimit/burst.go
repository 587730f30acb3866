package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/simplegeohq/simplegeoapi/internal/config"
)

const keyBurstAPIKey = "ratelimit:key:%s"

// BurstLimiter smooths request spikes per API key, independently of the
// monthly and daily quotas. Disabled deployments get a nil limiter; every
// call then admits.
type BurstLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewBurstLimiter(cfg config.Config) (*BurstLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.Rate <= 0 || limitCfg.Burst <= 0 {
		return nil, errors.New("rate limit rate and burst must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &BurstLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.Rate,
		burst:   limitCfg.Burst,
	}, nil
}

func (l *BurstLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// Allow consumes one token from the caller's bucket, keyed by the API key
// hash so raw keys never reach Redis.
func (l *BurstLimiter) Allow(ctx context.Context, keyHash string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyBurstAPIKey, strings.TrimSpace(keyHash)), l.rate, l.burst)
}
