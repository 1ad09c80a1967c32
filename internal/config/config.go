// Package config defines all configuration structures for the edesigner
// library design engine. No I/O or parsing logic lives here — only plain
// data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// EngineConfig holds growth-engine and coalescer/validator tunables.
type EngineConfig struct {
	// DesignsInMemory bounds the number of partial Designs the growth engine
	// holds before flushing a checkpoint batch.
	DesignsInMemory int `mapstructure:"designs_in_memory"`

	// IncludeDesigns is loaded from configuration but not read by the design
	// pipeline; the output stream holds LibDesigns only.
	IncludeDesigns bool `mapstructure:"include_designs"`

	// Workers bounds the local worker-pool concurrency used to fan out
	// cycle expansion across CPUs.
	Workers int `mapstructure:"workers"`

	// AllowedCycleCounts, when non-empty, restricts which total_cycles
	// values a LibDesign may validate with. An empty slice means no
	// restriction.
	AllowedCycleCounts []int `mapstructure:"allowed_cycle_counts"`

	// MinCount is the minimum internal product count (n_int) a LibDesign
	// must reach to survive validation.
	MinCount int `mapstructure:"min_count"`

	// AtomBudgetPercentile is checked by Validate to lie in (0, 1] and is not
	// read elsewhere; per-cycle atom caps come from the parameter tables.
	AtomBudgetPercentile float64 `mapstructure:"atom_budget_percentile"`
}

// PostgresConfig holds PostgreSQL connection parameters for the LibDesign
// stream repository and BBT catalogue descriptor store.
type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// RedisConfig holds Redis connection parameters used for the classifier's
// canonical-SMILES dedup cache and the BBT catalogue read-through cache.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka parameters for distributing cycle-expansion
// batches across edesigner-worker processes.
type KafkaConfig struct {
	Brokers           []string      `mapstructure:"brokers"`
	ConsumerGroup     string        `mapstructure:"consumer_group"`
	ShardTopic        string        `mapstructure:"shard_topic"`
	ResultTopic       string        `mapstructure:"result_topic"`
	AutoOffsetReset   string        `mapstructure:"auto_offset_reset"`
	SessionTimeout    time.Duration `mapstructure:"session_timeout"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	ProducerRetries   int           `mapstructure:"producer_retries"`
	BatchSize         int           `mapstructure:"batch_size"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters used to
// archive per-cycle design checkpoints and final compound listings.
type MinIOConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	Region        string        `mapstructure:"region"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// PrometheusConfig holds metrics-exporter parameters.
type PrometheusConfig struct {
	Namespace            string `mapstructure:"namespace"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level        string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format       string `mapstructure:"format"` // "json" | "console"
	Output       string `mapstructure:"output"` // "stdout" | "file"
	FilePath     string `mapstructure:"file_path"`
	EnableCaller bool   `mapstructure:"enable_caller"`
}

// DatabaseConfig groups the database backends the engine persists to.
type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// CacheConfig groups the cache backends the engine reads through.
type CacheConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// MessagingConfig groups the message-queue backends used for distributed
// sharding.
type MessagingConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
}

// StorageConfig groups the object-storage backends used for archival.
type StorageConfig struct {
	MinIO MinIOConfig `mapstructure:"minio"`
}

// MonitoringConfig groups observability settings.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Logging    LogConfig        `mapstructure:"logging"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the engine. Every
// infrastructure component and domain driver reads its settings from the
// relevant sub-struct.
type Config struct {
	Engine     EngineConfig     `mapstructure:"engine"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Messaging  MessagingConfig  `mapstructure:"messaging"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Engine
	if c.Engine.DesignsInMemory < 1 {
		return fmt.Errorf("config: engine.designs_in_memory must be >= 1, got %d", c.Engine.DesignsInMemory)
	}
	if c.Engine.Workers < 1 {
		return fmt.Errorf("config: engine.workers must be >= 1, got %d", c.Engine.Workers)
	}
	if c.Engine.MinCount < 0 {
		return fmt.Errorf("config: engine.min_count must be >= 0, got %d", c.Engine.MinCount)
	}
	if c.Engine.AtomBudgetPercentile <= 0 || c.Engine.AtomBudgetPercentile > 1 {
		return fmt.Errorf("config: engine.atom_budget_percentile must be in (0, 1], got %f", c.Engine.AtomBudgetPercentile)
	}

	// Database
	if c.Database.Postgres.Host == "" {
		return fmt.Errorf("config: database.postgres.host is required")
	}
	if c.Database.Postgres.Port < 1 || c.Database.Postgres.Port > 65535 {
		return fmt.Errorf("config: database.postgres.port %d is out of range [1, 65535]", c.Database.Postgres.Port)
	}
	if c.Database.Postgres.DBName == "" {
		return fmt.Errorf("config: database.postgres.db_name is required")
	}
	if c.Database.Postgres.MaxConns < 1 {
		return fmt.Errorf("config: database.postgres.max_conns must be >= 1, got %d", c.Database.Postgres.MaxConns)
	}

	// Cache
	if c.Cache.Redis.Addr == "" {
		return fmt.Errorf("config: cache.redis.addr is required")
	}
	if c.Cache.Redis.DB < 0 {
		return fmt.Errorf("config: cache.redis.db must be >= 0, got %d", c.Cache.Redis.DB)
	}

	// Messaging
	if len(c.Messaging.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: messaging.kafka.brokers must contain at least one broker address")
	}
	if c.Messaging.Kafka.ConsumerGroup == "" {
		return fmt.Errorf("config: messaging.kafka.consumer_group is required")
	}

	// Storage
	if c.Storage.MinIO.Endpoint == "" {
		return fmt.Errorf("config: storage.minio.endpoint is required")
	}
	if c.Storage.MinIO.Bucket == "" {
		return fmt.Errorf("config: storage.minio.bucket is required")
	}

	// Logging
	switch c.Monitoring.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: monitoring.logging.level %q is invalid; expected debug|info|warn|error", c.Monitoring.Logging.Level)
	}
	switch c.Monitoring.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: monitoring.logging.format %q is invalid; expected json|console", c.Monitoring.Logging.Format)
	}

	return nil
}
