package cli

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dnaenc/edesigner/internal/config"
	"github.com/dnaenc/edesigner/internal/infrastructure/database/postgres"
	redisinfra "github.com/dnaenc/edesigner/internal/infrastructure/database/redis"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
)

// infrastructure bundles every mandatory backing store the engine needs to
// run a classify or design verb to completion: the Postgres pool backing the
// LibDesign stream and BBT catalogue descriptor repository, and the Redis
// cache backing the classifier's dedup set and the catalogue read-through
// cache. Config.Validate rejects a Config missing either, so both are always
// constructed together and torn down together.
type infrastructure struct {
	pool  *pgxpool.Pool
	repo  *postgres.Repository
	redis *redisinfra.Client
	cache redisinfra.Cache
}

// initInfrastructure connects to Postgres (running pending migrations) and
// Redis in sequence, closing whatever was already opened if a later step
// fails. Every failure is wrapped with the component name that failed, so
// operators can tell a Postgres outage from a Redis one at a glance.
func initInfrastructure(cfg *config.Config, logger logging.Logger) (*infrastructure, error) {
	pool, err := postgres.NewConnectionPool(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.Postgres.User, cfg.Database.Postgres.Password,
		cfg.Database.Postgres.Host, cfg.Database.Postgres.Port,
		cfg.Database.Postgres.DBName, cfg.Database.Postgres.SSLMode)
	if err := postgres.RunMigrations(dbURL, cfg.Database.Postgres.MigrationsPath); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(toRedisInfraConfig(cfg.Cache.Redis), logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	cache := redisinfra.NewRedisCache(redisClient, logger,
		redisinfra.WithPrefix(cfg.Cache.Redis.KeyPrefix+":"),
		redisinfra.WithDefaultTTL(cfg.Cache.Redis.DefaultTTL))

	return &infrastructure{
		pool:  pool,
		repo:  postgres.NewRepository(pool, logger),
		redis: redisClient,
		cache: cache,
	}, nil
}

// Close releases every infrastructure handle, tolerating a nil receiver or
// partially-constructed infrastructure (e.g. when init failed before Redis
// was reached).
func (i *infrastructure) Close() {
	if i == nil {
		return
	}
	if i.redis != nil {
		i.redis.Close()
	}
	if i.pool != nil {
		i.pool.Close()
	}
}

// toRedisInfraConfig adapts the config package's transport-agnostic
// RedisConfig to the redis package's connection-level RedisConfig, defaulting
// to standalone mode since the engine only ever speaks to a single addr.
func toRedisInfraConfig(c config.RedisConfig) *redisinfra.RedisConfig {
	return &redisinfra.RedisConfig{
		Mode:         "standalone",
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

// dedupTTL is how long a classifier dedup claim holds in Redis before a
// later classify run against the same catalogue may reclaim the same
// canonical SMILES.
const dedupTTL = 24 * time.Hour
