// Command edesigner-worker is the distributed cycle-expansion consumer: it
// pulls ShardBatch messages off a Kafka shard topic, runs one cycle's
// AddCycle expansion locally, and publishes the resulting ResultBatch back
// to a result topic for a single coordinating coalescer.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dnaenc/edesigner/internal/application/pipeline"
	"github.com/dnaenc/edesigner/internal/config"
	"github.com/dnaenc/edesigner/internal/domain/param"
	"github.com/dnaenc/edesigner/internal/infrastructure/messaging/kafka"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/prometheus"
)

const (
	defaultConfigPath   = "configs/config.yaml"
	defaultHealthPort   = 8082
	shutdownGracePeriod = 30 * time.Second
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	paramsDir := flag.String("params", "", "directory containing the parameter tables")
	cataloguePath := flag.String("catalogue", "", "catalogue JSON file produced by the classify verb")
	topic := flag.String("topic", "", "shard topic to consume (default: messaging.kafka.shard_topic from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Monitoring.Logging.Level,
		Format:           cfg.Monitoring.Logging.Format,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	metrics, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Monitoring.Prometheus.Namespace,
		EnableProcessMetrics: cfg.Monitoring.Prometheus.EnableProcessMetrics,
		EnableGoMetrics:      cfg.Monitoring.Prometheus.EnableGoMetrics,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize metrics collector", logging.Err(err))
		os.Exit(1)
	}

	p, err := param.Load(*paramsDir)
	if err != nil {
		logger.Error("failed to load parameters", logging.Err(err))
		os.Exit(1)
	}

	catalogueFile, err := os.Open(*cataloguePath)
	if err != nil {
		logger.Error("failed to open catalogue", logging.Err(err))
		os.Exit(1)
	}
	catalogue, err := pipeline.LoadCatalogue(catalogueFile)
	catalogueFile.Close()
	if err != nil {
		logger.Error("failed to load catalogue", logging.Err(err))
		os.Exit(1)
	}

	shardTopic := *topic
	if shardTopic == "" {
		shardTopic = cfg.Messaging.Kafka.ShardTopic
	}
	resultTopic := cfg.Messaging.Kafka.ResultTopic

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:    cfg.Messaging.Kafka.Brokers,
		Acks:       "all",
		MaxRetries: cfg.Messaging.Kafka.ProducerRetries,
		BatchSize:  cfg.Messaging.Kafka.BatchSize,
	}, logger)
	if err != nil {
		logger.Error("failed to create result producer", logging.Err(err))
		os.Exit(1)
	}
	defer producer.Close()

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:           cfg.Messaging.Kafka.Brokers,
		GroupID:           cfg.Messaging.Kafka.ConsumerGroup,
		Topics:            []string{shardTopic},
		AutoOffsetReset:   cfg.Messaging.Kafka.AutoOffsetReset,
		SessionTimeout:    cfg.Messaging.Kafka.SessionTimeout,
		HeartbeatInterval: cfg.Messaging.Kafka.HeartbeatInterval,
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      3,
			RetryBackoff:    time.Second,
			MaxRetryBackoff: 10 * time.Second,
			DeadLetterTopic: shardTopic + ".dlq",
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create shard consumer", logging.Err(err))
		os.Exit(1)
	}
	defer consumer.Close()

	handler := pipeline.NewShardExpansionHandler(p, catalogue, producer, resultTopic, logger)
	if err := consumer.Subscribe(shardTopic, handler); err != nil {
		logger.Error("failed to subscribe to shard topic", logging.Err(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthSrv := startHealthServer(logger, metrics)

	if err := consumer.Start(ctx); err != nil {
		logger.Error("failed to start shard consumer", logging.Err(err))
		os.Exit(1)
	}

	logger.Info("edesigner-worker consuming", logging.String("shard_topic", shardTopic), logging.String("result_topic", resultTopic))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("received shutdown signal", logging.String("signal", sig.String()))
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer shutdownCancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}

	logger.Info("edesigner-worker stopped")
}

func startHealthServer(logger logging.Logger, metrics prometheus.MetricsCollector) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", defaultHealthPort),
		Handler: mux,
	}

	go func() {
		logger.Info("health server listening", logging.Int("port", defaultHealthPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", logging.Err(err))
		}
	}()

	return srv
}
