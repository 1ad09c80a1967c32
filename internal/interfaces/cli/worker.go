package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dnaenc/edesigner/internal/application/pipeline"
	"github.com/dnaenc/edesigner/internal/domain/param"
	"github.com/dnaenc/edesigner/internal/infrastructure/messaging/kafka"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
)

func newDesignWorkerCmd() *cobra.Command {
	var (
		paramsDir     string
		cataloguePath string
		shardTopic    string
	)

	cmd := &cobra.Command{
		Use:   "design-worker",
		Short: "consume cycle-expansion batches from Kafka and publish expanded results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			logger := cliCtx.Logger
			kafkaCfg := cliCtx.Config.Messaging.Kafka

			p, err := param.Load(paramsDir)
			if err != nil {
				return fmt.Errorf("loading parameters: %w", err)
			}

			catalogueFile, err := os.Open(cataloguePath)
			if err != nil {
				return fmt.Errorf("opening catalogue: %w", err)
			}
			catalogue, err := pipeline.LoadCatalogue(catalogueFile)
			catalogueFile.Close()
			if err != nil {
				return fmt.Errorf("loading catalogue: %w", err)
			}

			topic := shardTopic
			if topic == "" {
				topic = kafkaCfg.ShardTopic
			}
			resultTopic := kafkaCfg.ResultTopic

			producer, err := kafka.NewProducer(kafka.ProducerConfig{
				Brokers:    kafkaCfg.Brokers,
				Acks:       "all",
				MaxRetries: kafkaCfg.ProducerRetries,
				BatchSize:  kafkaCfg.BatchSize,
			}, logger)
			if err != nil {
				return fmt.Errorf("creating result producer: %w", err)
			}
			defer producer.Close()

			consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
				Brokers:           kafkaCfg.Brokers,
				GroupID:           kafkaCfg.ConsumerGroup,
				Topics:            []string{topic},
				AutoOffsetReset:   kafkaCfg.AutoOffsetReset,
				SessionTimeout:    kafkaCfg.SessionTimeout,
				HeartbeatInterval: kafkaCfg.HeartbeatInterval,
				RetryConfig: kafka.RetryConfig{
					MaxRetries:      3,
					RetryBackoff:    time.Second,
					MaxRetryBackoff: 10 * time.Second,
					DeadLetterTopic: topic + ".dlq",
				},
			}, logger)
			if err != nil {
				return fmt.Errorf("creating shard consumer: %w", err)
			}
			defer consumer.Close()

			handler := pipeline.NewShardExpansionHandler(p, catalogue, producer, resultTopic, logger)
			if err := consumer.Subscribe(topic, handler); err != nil {
				return fmt.Errorf("subscribing to shard topic: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-quit
				logger.Info("received shutdown signal", logging.String("signal", sig.String()))
				cancel()
			}()

			logger.Info("design-worker consuming", logging.String("shard_topic", topic), logging.String("result_topic", resultTopic))
			if err := consumer.Start(ctx); err != nil {
				return fmt.Errorf("starting shard consumer: %w", err)
			}

			<-ctx.Done()
			logger.Info("design-worker stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&paramsDir, "params", "", "directory containing the parameter tables")
	cmd.Flags().StringVar(&cataloguePath, "catalogue", "", "catalogue JSON file produced by the classify verb")
	cmd.Flags().StringVar(&shardTopic, "topic", "", "shard topic to consume (default: messaging.kafka.shard_topic from config)")
	cmd.MarkFlagRequired("params")
	cmd.MarkFlagRequired("catalogue")

	return cmd
}
