// Package config provides configuration loading, defaults, and validation
// for the edesigner library design engine.
package config

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultEngineDesignsInMemory      = 10000
	DefaultEngineWorkers              = 4
	DefaultEngineMinCount             = 0
	DefaultEngineAtomBudgetPercentile = 0.95

	DefaultDBHost           = "localhost"
	DefaultDBPort           = 5432
	DefaultDBName           = "edesigner"
	DefaultDBMaxConns       = 25
	DefaultDBMinConns       = 2
	DefaultDBMigrationsPath = "file://migrations"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisDB        = 0
	DefaultRedisPoolSize  = 10
	DefaultRedisKeyPrefix = "edesigner"

	DefaultKafkaBroker      = "localhost:9092"
	DefaultKafkaGroupID     = "edesigner-worker"
	DefaultKafkaShardTopic  = "edesigner.cycle-shards"
	DefaultKafkaResultTopic = "edesigner.libdesign-results"
	DefaultKafkaBatchSize   = 100

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "edesigner-checkpoints"
	DefaultMinIORegion   = "us-east-1"

	DefaultPrometheusNamespace = "edesigner"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "stdout"
)

// ─────────────────────────────────────────────────────────────────────────────
// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// It must be called after unmarshalling raw config data and before Validate()
// so that optional-but-defaulted fields are never seen as missing.
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills every zero-value field in cfg with the engine default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Engine ────────────────────────────────────────────────────────────────
	if cfg.Engine.DesignsInMemory == 0 {
		cfg.Engine.DesignsInMemory = DefaultEngineDesignsInMemory
	}
	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = DefaultEngineWorkers
	}
	if cfg.Engine.AtomBudgetPercentile == 0 {
		cfg.Engine.AtomBudgetPercentile = DefaultEngineAtomBudgetPercentile
	}
	// AllowedCycleCounts left nil by default: unrestricted.

	// ── Database.Postgres ────────────────────────────────────────────────────
	if cfg.Database.Postgres.Host == "" {
		cfg.Database.Postgres.Host = DefaultDBHost
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = DefaultDBPort
	}
	if cfg.Database.Postgres.DBName == "" {
		cfg.Database.Postgres.DBName = DefaultDBName
	}
	if cfg.Database.Postgres.MaxConns == 0 {
		cfg.Database.Postgres.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.Postgres.MinConns == 0 {
		cfg.Database.Postgres.MinConns = DefaultDBMinConns
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Postgres.MigrationsPath == "" {
		cfg.Database.Postgres.MigrationsPath = DefaultDBMigrationsPath
	}

	// ── Cache.Redis ───────────────────────────────────────────────────────────
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Cache.Redis.PoolSize == 0 {
		cfg.Cache.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Cache.Redis.KeyPrefix == "" {
		cfg.Cache.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0". We leave it as-is (0 is also the default).

	// ── Messaging.Kafka ───────────────────────────────────────────────────────
	if len(cfg.Messaging.Kafka.Brokers) == 0 {
		cfg.Messaging.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Messaging.Kafka.ConsumerGroup == "" {
		cfg.Messaging.Kafka.ConsumerGroup = DefaultKafkaGroupID
	}
	if cfg.Messaging.Kafka.ShardTopic == "" {
		cfg.Messaging.Kafka.ShardTopic = DefaultKafkaShardTopic
	}
	if cfg.Messaging.Kafka.ResultTopic == "" {
		cfg.Messaging.Kafka.ResultTopic = DefaultKafkaResultTopic
	}
	if cfg.Messaging.Kafka.AutoOffsetReset == "" {
		cfg.Messaging.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Messaging.Kafka.BatchSize == 0 {
		cfg.Messaging.Kafka.BatchSize = DefaultKafkaBatchSize
	}

	// ── Storage.MinIO ─────────────────────────────────────────────────────────
	if cfg.Storage.MinIO.Endpoint == "" {
		cfg.Storage.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.Storage.MinIO.Bucket == "" {
		cfg.Storage.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.Storage.MinIO.Region == "" {
		cfg.Storage.MinIO.Region = DefaultMinIORegion
	}

	// ── Monitoring.Prometheus ─────────────────────────────────────────────────
	if cfg.Monitoring.Prometheus.Namespace == "" {
		cfg.Monitoring.Prometheus.Namespace = DefaultPrometheusNamespace
	}

	// ── Monitoring.Logging ────────────────────────────────────────────────────
	if cfg.Monitoring.Logging.Level == "" {
		cfg.Monitoring.Logging.Level = DefaultLogLevel
	}
	if cfg.Monitoring.Logging.Format == "" {
		cfg.Monitoring.Logging.Format = DefaultLogFormat
	}
	if cfg.Monitoring.Logging.Output == "" {
		cfg.Monitoring.Logging.Output = DefaultLogOutput
	}
}

// NewDefaultConfig returns a Config with every field set to its default
// value. Fields without a default, such as credentials and timeouts, are
// left zero-valued.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
