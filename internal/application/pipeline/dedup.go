package pipeline

import (
	"context"
	"time"

	"github.com/dnaenc/edesigner/internal/domain/classifier"
	"github.com/dnaenc/edesigner/internal/infrastructure/database/redis"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
)

// redisDedup backs classifier.Dedup with the shared Redis cache's Claim
// primitive, so canonical-SMILES dedup survives a single process and spans
// concurrent classify runs against the same catalogue within ttl.
type redisDedup struct {
	cache  redis.Cache
	ttl    time.Duration
	logger logging.Logger
}

// NewRedisDedup wraps an already-connected Redis cache as a classifier.Dedup.
// A claim expires after ttl, after which the same canonical SMILES can be
// claimed again by a later run; ttl should comfortably exceed how long a
// single classify invocation takes to finish.
func NewRedisDedup(cache redis.Cache, ttl time.Duration, logger logging.Logger) classifier.Dedup {
	return &redisDedup{cache: cache, ttl: ttl, logger: logger}
}

func (d *redisDedup) Claim(canonicalSMILES string) bool {
	ok, err := d.cache.Claim(context.Background(), "dedup:"+canonicalSMILES, d.ttl)
	if err != nil {
		d.logger.Warn("redis dedup claim failed, treating as first occurrence", logging.Err(err))
		return true
	}
	return ok
}
