package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dnaenc/edesigner/internal/application/pipeline"
	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/library"
	"github.com/dnaenc/edesigner/internal/domain/param"
	"github.com/dnaenc/edesigner/internal/infrastructure/database/redis"
	"github.com/dnaenc/edesigner/internal/infrastructure/messaging/kafka"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
	"github.com/dnaenc/edesigner/internal/infrastructure/storage/minio"
)

// catalogueCacheTTL bounds how long a loaded catalogue is read-through
// cached before a later design run re-reads the catalogue file from disk.
// Kept short relative to dedupTTL since a catalogue file can be replaced by a
// fresh classify run at any time.
const catalogueCacheTTL = 30 * time.Minute

func newDesignCmd() *cobra.Command {
	var (
		paramsDir     string
		cataloguePath string
		outDir        string
		distributed   bool
	)

	cmd := &cobra.Command{
		Use:   "design",
		Short: "grow designs and validate the resulting libraries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			logger := cliCtx.Logger
			engineCfg := cliCtx.Config.Engine

			infra, err := initInfrastructure(cliCtx.Config, logger)
			if err != nil {
				return fmt.Errorf("connecting infrastructure: %w", err)
			}
			defer infra.Close()

			p, err := param.Load(paramsDir)
			if err != nil {
				return fmt.Errorf("loading parameters: %w", err)
			}
			if engineCfg.MinCount > 0 {
				p.Global.MinCount = engineCfg.MinCount
			}

			catalogue, err := loadCatalogueCached(cmd.Context(), infra.cache, cataloguePath)
			if err != nil {
				return fmt.Errorf("loading catalogue: %w", err)
			}

			var checkpoint pipeline.Checkpointer
			if cliCtx.Config.Storage.MinIO.Endpoint != "" {
				minioClient, err := minio.NewClient(&cliCtx.Config.Storage.MinIO, logger)
				if err != nil {
					logger.Warn("minio checkpoint store unavailable, continuing without checkpointing", logging.Err(err))
				} else {
					defer minioClient.Close()
					checkpoint = pipeline.NewMinIOCheckpointer(minioClient, logger)
				}
			}

			cfg := pipeline.DesignConfig{
				TotalCycles:        p.Global.TotalCycles,
				DesignsInMemory:    engineCfg.DesignsInMemory,
				Workers:            engineCfg.Workers,
				AllowedCycleCounts: engineCfg.AllowedCycleCounts,
				HistSize:           p.Global.MaxNAAbsolute + 1,
			}

			var result *pipeline.DesignResult
			if distributed {
				result, err = runDistributed(cmd.Context(), cliCtx, p, catalogue, cfg, checkpoint, logger)
			} else {
				result, err = pipeline.RunDesign(cmd.Context(), p, catalogue, cfg, checkpoint, logger, cliCtx.Metrics)
			}
			if err != nil {
				return fmt.Errorf("design: %w", err)
			}

			store := pipeline.NewPostgresStore(infra.repo)
			if err := store.SaveLibDesigns(cmd.Context(), result.RunID, result.Libraries); err != nil {
				return fmt.Errorf("persisting library stream: %w", err)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			streamPath := filepath.Join(outDir, "libraries.jsonl")
			streamFile, err := os.Create(streamPath)
			if err != nil {
				return fmt.Errorf("creating library stream file: %w", err)
			}
			streamErr := pipeline.WriteLibraryStream(streamFile, result.Libraries)
			if closeErr := streamFile.Close(); streamErr == nil {
				streamErr = closeErr
			}
			if streamErr != nil {
				return fmt.Errorf("writing library stream: %w", streamErr)
			}

			translationPath := filepath.Join(outDir, "translation.txt")
			translationFile, err := os.Create(translationPath)
			if err != nil {
				return fmt.Errorf("creating translation file: %w", err)
			}
			folders := library.TranslationFolders{
				ReactionsFolder: "reactions/",
				CompoundsFolder: "compounds/",
			}
			transErr := pipeline.WriteTranslations(translationFile, result.Libraries, p, catalogue, folders)
			if closeErr := translationFile.Close(); transErr == nil {
				transErr = closeErr
			}
			if transErr != nil {
				return fmt.Errorf("writing translation transcript: %w", transErr)
			}

			logger.Info("design complete",
				logging.String("run_id", result.RunID),
				logging.Int("libraries", len(result.Libraries)),
				logging.String("out", outDir))
			return nil
		},
	}

	cmd.Flags().StringVar(&paramsDir, "params", "", "directory containing the parameter tables")
	cmd.Flags().StringVar(&cataloguePath, "catalogue", "", "catalogue JSON file produced by the classify verb")
	cmd.Flags().StringVar(&outDir, "out", "./design-out", "output directory for the library stream and translation transcript")
	cmd.Flags().BoolVar(&distributed, "distributed", false, "farm cycle expansion out to edesigner-worker processes over Kafka instead of a local worker pool")
	cmd.MarkFlagRequired("params")
	cmd.MarkFlagRequired("catalogue")

	return cmd
}

// runDistributed sets up the shard-topic producer and result-topic consumer
// a `design --distributed` run needs, then delegates the growth loop to
// pipeline.RunDistributedDesign. Both are closed before returning so a
// failed or completed run never leaks a Kafka connection.
func runDistributed(ctx context.Context, cliCtx *CLIContext, p *param.Params, catalogue *bbt.Catalogue, cfg pipeline.DesignConfig, checkpoint pipeline.Checkpointer, logger logging.Logger) (*pipeline.DesignResult, error) {
	kafkaCfg := cliCtx.Config.Messaging.Kafka

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:    kafkaCfg.Brokers,
		Acks:       "all",
		MaxRetries: kafkaCfg.ProducerRetries,
		BatchSize:  kafkaCfg.BatchSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating shard producer: %w", err)
	}
	defer producer.Close()

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:           kafkaCfg.Brokers,
		GroupID:           kafkaCfg.ConsumerGroup + "-coordinator",
		Topics:            []string{kafkaCfg.ResultTopic},
		AutoOffsetReset:   kafkaCfg.AutoOffsetReset,
		SessionTimeout:    kafkaCfg.SessionTimeout,
		HeartbeatInterval: kafkaCfg.HeartbeatInterval,
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      3,
			RetryBackoff:    time.Second,
			MaxRetryBackoff: 10 * time.Second,
			DeadLetterTopic: kafkaCfg.ResultTopic + ".dlq",
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating result consumer: %w", err)
	}
	defer consumer.Close()

	return pipeline.RunDistributedDesign(ctx, p, catalogue, cfg, producer, consumer, kafkaCfg.ShardTopic, kafkaCfg.ResultTopic, checkpoint, logger, cliCtx.Metrics)
}

// loadCatalogueCached reads the catalogue JSON at path through cache's
// read-through GetOrSet, so repeated design runs against the same classify
// output skip re-parsing the (potentially large) compound histogram JSON.
// The cache key is the catalogue file's path, so pointing two design runs at
// different catalogue files never collides.
func loadCatalogueCached(ctx context.Context, cache redis.Cache, path string) (*bbt.Catalogue, error) {
	var bbts []*bbt.BBT
	err := cache.GetOrSet(ctx, "catalogue:"+path, &bbts, catalogueCacheTTL, func(ctx context.Context) (interface{}, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening catalogue: %w", err)
		}
		defer f.Close()
		catalogue, err := pipeline.LoadCatalogue(f)
		if err != nil {
			return nil, err
		}
		return catalogue.BBTs, nil
	})
	if err != nil {
		return nil, err
	}
	return bbt.FromBBTs(bbts), nil
}
