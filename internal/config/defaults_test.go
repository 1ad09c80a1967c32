package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultEngineDesignsInMemory, cfg.Engine.DesignsInMemory)
	assert.Equal(t, DefaultEngineWorkers, cfg.Engine.Workers)
	assert.Equal(t, float64(DefaultEngineAtomBudgetPercentile), cfg.Engine.AtomBudgetPercentile)

	assert.Equal(t, DefaultDBHost, cfg.Database.Postgres.Host)
	assert.Equal(t, DefaultDBPort, cfg.Database.Postgres.Port)
	assert.Equal(t, DefaultDBName, cfg.Database.Postgres.DBName)
	assert.Equal(t, DefaultDBMaxConns, cfg.Database.Postgres.MaxConns)
	assert.Equal(t, DefaultDBMinConns, cfg.Database.Postgres.MinConns)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)

	assert.Equal(t, DefaultRedisAddr, cfg.Cache.Redis.Addr)
	assert.Equal(t, DefaultRedisPoolSize, cfg.Cache.Redis.PoolSize)
	assert.Equal(t, DefaultRedisKeyPrefix, cfg.Cache.Redis.KeyPrefix)

	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Messaging.Kafka.Brokers)
	assert.Equal(t, DefaultKafkaGroupID, cfg.Messaging.Kafka.ConsumerGroup)
	assert.Equal(t, DefaultKafkaShardTopic, cfg.Messaging.Kafka.ShardTopic)
	assert.Equal(t, DefaultKafkaResultTopic, cfg.Messaging.Kafka.ResultTopic)
	assert.Equal(t, "earliest", cfg.Messaging.Kafka.AutoOffsetReset)
	assert.Equal(t, DefaultKafkaBatchSize, cfg.Messaging.Kafka.BatchSize)

	assert.Equal(t, DefaultMinIOEndpoint, cfg.Storage.MinIO.Endpoint)
	assert.Equal(t, DefaultMinIOBucket, cfg.Storage.MinIO.Bucket)
	assert.Equal(t, DefaultMinIORegion, cfg.Storage.MinIO.Region)

	assert.Equal(t, DefaultPrometheusNamespace, cfg.Monitoring.Prometheus.Namespace)

	assert.Equal(t, DefaultLogLevel, cfg.Monitoring.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Monitoring.Logging.Format)
	assert.Equal(t, DefaultLogOutput, cfg.Monitoring.Logging.Output)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Engine.Workers = 16
	cfg.Database.Postgres.Host = "custom-host"

	ApplyDefaults(cfg)

	assert.Equal(t, 16, cfg.Engine.Workers)
	assert.Equal(t, "custom-host", cfg.Database.Postgres.Host)
	assert.Equal(t, DefaultDBPort, cfg.Database.Postgres.Port) // still default
}

func TestApplyDefaults_PreserveSliceValues(t *testing.T) {
	cfg := &Config{}
	brokers := []string{"kafka-1:9092", "kafka-2:9092"}
	cfg.Messaging.Kafka.Brokers = brokers

	ApplyDefaults(cfg)

	assert.Equal(t, brokers, cfg.Messaging.Kafka.Brokers)
}

func TestApplyDefaults_PreserveAllowedCycleCounts(t *testing.T) {
	cfg := &Config{}
	cfg.Engine.AllowedCycleCounts = []int{2, 3}

	ApplyDefaults(cfg)

	assert.Equal(t, []int{2, 3}, cfg.Engine.AllowedCycleCounts)
}

func TestApplyDefaults_NilAllowedCycleCountsStaysNil(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.Nil(t, cfg.Engine.AllowedCycleCounts)
}

func TestNewDefaultConfig_NotNil(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.NotNil(t, cfg)
}

func TestNewDefaultConfig_PassesValidationAfterFillingRequiredFields(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Postgres.DBName = "edesigner"
	cfg.Cache.Redis.Addr = "localhost:6379"
	cfg.Messaging.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Messaging.Kafka.ConsumerGroup = "edesigner-worker"
	cfg.Storage.MinIO.Endpoint = "localhost:9000"
	cfg.Storage.MinIO.Bucket = "edesigner-checkpoints"

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestNewDefaultConfig_LogLevel(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "info", cfg.Monitoring.Logging.Level)
}

func TestNewDefaultConfig_EngineWorkers(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, DefaultEngineWorkers, cfg.Engine.Workers)
}
