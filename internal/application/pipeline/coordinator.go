package pipeline

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/design"
	"github.com/dnaenc/edesigner/internal/domain/library"
	"github.com/dnaenc/edesigner/internal/domain/param"
	"github.com/dnaenc/edesigner/internal/infrastructure/messaging/kafka"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/prometheus"
	"github.com/dnaenc/edesigner/pkg/errors"
)

// cycleKey disambiguates one (chunk, cycle) transition's shard results from
// every other transition the same run publishes, since cycle numbers restart
// at 1 for every DesignsInMemory-bounded chunk.
type cycleKey struct {
	chunk int
	cycle int
}

// distributedCoordinator is the single coordinating coalescer a `design
// --distributed` run starts: it publishes each cycle's ShardBatch messages to
// the shard topic edesigner-worker processes consume, and collects their
// ResultBatch replies off the result topic until every shard for that
// (chunk, cycle) has reported back, merging them into the next cycle's input
// the same way expandConcurrently folds its local worker pool's shares back
// together.
type distributedCoordinator struct {
	runID       string
	producer    *kafka.Producer
	shardTopic  string
	resultTopic string
	logger      logging.Logger

	mu       sync.Mutex
	expected map[cycleKey]int
	shards   map[cycleKey]map[int][]*design.Design
	done     map[cycleKey]chan struct{}
}

// newDistributedCoordinator wraps an already-connected producer as a
// coordinator and subscribes consumer to resultTopic. consumer must not
// already be subscribed to resultTopic; Start has not been called yet.
func newDistributedCoordinator(runID string, producer *kafka.Producer, consumer *kafka.Consumer, shardTopic, resultTopic string, logger logging.Logger) (*distributedCoordinator, error) {
	c := &distributedCoordinator{
		runID:       runID,
		producer:    producer,
		shardTopic:  shardTopic,
		resultTopic: resultTopic,
		logger:      logger,
		expected:    make(map[cycleKey]int),
		shards:      make(map[cycleKey]map[int][]*design.Design),
		done:        make(map[cycleKey]chan struct{}),
	}
	if err := consumer.Subscribe(resultTopic, c.handleResult); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *distributedCoordinator) doneChan(key cycleKey) chan struct{} {
	ch, ok := c.done[key]
	if !ok {
		ch = make(chan struct{})
		c.done[key] = ch
	}
	return ch
}

// handleResult is the kafka.MessageHandler registered against the result
// topic. Messages belonging to a different run (a result topic may be shared
// across concurrent design runs) are ignored rather than erroring, since a
// concurrent run's traffic is expected, not a failure.
func (c *distributedCoordinator) handleResult(ctx context.Context, msg *kafka.Message) error {
	var batch ResultBatch
	if err := json.Unmarshal(msg.Value, &batch); err != nil {
		return errors.Wrap(err, errors.CodeSerializationError, "failed to decode result batch")
	}
	if batch.RunID != c.runID {
		return nil
	}

	key := cycleKey{chunk: batch.Chunk, cycle: batch.Cycle}

	c.mu.Lock()
	defer c.mu.Unlock()

	shards, ok := c.shards[key]
	if !ok {
		shards = make(map[int][]*design.Design)
		c.shards[key] = shards
	}
	shards[batch.Shard] = batch.Designs

	c.logger.Info("shard result received",
		logging.String("run_id", c.runID), logging.Int("chunk", batch.Chunk),
		logging.Int("cycle", batch.Cycle), logging.Int("shard", batch.Shard), logging.Int("have", len(shards)))

	if expected, ok := c.expected[key]; ok && len(shards) >= expected {
		ch := c.doneChan(key)
		select {
		case <-ch:
		default:
			close(ch)
		}
	}
	return nil
}

// expandCycle publishes designs, partitioned into shards worker-sized
// shares, to the shard topic tagged with (chunk, cycle), then blocks until
// every shard's ResultBatch has arrived on the result topic, returning the
// merged designs in share order. It is the distributed counterpart of
// expandConcurrently: same partitioning scheme, same "all shares must finish
// before the next cycle starts" semantics, over Kafka instead of goroutines.
func (c *distributedCoordinator) expandCycle(ctx context.Context, chunk, cycle int, designs []*design.Design, workers int) ([]*design.Design, error) {
	if len(designs) == 0 {
		return nil, nil
	}
	shares := partition(designs, workers)
	key := cycleKey{chunk: chunk, cycle: cycle}

	c.mu.Lock()
	c.expected[key] = len(shares)
	done := c.doneChan(key)
	c.mu.Unlock()

	for i, share := range shares {
		payload, err := json.Marshal(ShardBatch{RunID: c.runID, Chunk: chunk, Cycle: cycle, Shard: i, Designs: share})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeSerializationError, "failed to encode shard batch")
		}
		if err := c.producer.Publish(ctx, &kafka.ProducerMessage{
			Topic: c.shardTopic,
			Key:   []byte(c.runID),
			Value: payload,
			Headers: map[string]string{
				"run_id": c.runID,
				"chunk":  strconv.Itoa(chunk),
				"cycle":  strconv.Itoa(cycle),
				"shard":  strconv.Itoa(i),
			},
		}); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to publish shard batch")
		}
	}

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.mu.Lock()
	shards := c.shards[key]
	delete(c.shards, key)
	delete(c.expected, key)
	delete(c.done, key)
	c.mu.Unlock()

	var out []*design.Design
	for i := range shares {
		out = append(out, shards[i]...)
	}
	return out, nil
}

// RunDistributedDesign is the `design --distributed` counterpart of
// RunDesign: the growth engine's per-cycle expansion is farmed out to
// edesigner-worker processes over Kafka instead of a local goroutine pool,
// coordinated by a distributedCoordinator this function owns for the
// duration of the run. Every other stage — chunking by DesignsInMemory,
// per-chunk coalescing, checkpointing, final validation — is identical to
// RunDesign, so the two produce the same DesignResult for the same inputs
// regardless of which executes the cycle expansion.
func RunDistributedDesign(ctx context.Context, p *param.Params, catalogue *bbt.Catalogue, cfg DesignConfig, producer *kafka.Producer, consumer *kafka.Consumer, shardTopic, resultTopic string, checkpoint Checkpointer, logger logging.Logger, metrics prometheus.MetricsCollector) (*DesignResult, error) {
	if err := checkCycleCountAllowed(cfg); err != nil {
		return nil, err
	}

	runID := uuid.NewString()

	coordinator, err := newDistributedCoordinator(runID, producer, consumer, shardTopic, resultTopic, logger)
	if err != nil {
		return nil, err
	}
	if err := consumer.Start(ctx); err != nil {
		return nil, err
	}

	var designGauge prometheus.Gauge
	if metrics != nil {
		designGauge = metrics.RegisterGauge("designs_in_memory", "designs currently held by the growth engine").WithLabelValues()
	}

	initial := design.NewInitialDesigns(p, catalogue, cfg.TotalCycles)
	chunkSize := cfg.DesignsInMemory
	if chunkSize <= 0 || chunkSize > len(initial) {
		chunkSize = len(initial)
	}

	coalescer := library.NewCoalescer()
	summary := RunSummary{CycleCounts: make([]int, cfg.TotalCycles)}

	chunkIdx := 0
	for start := 0; start < len(initial); start += chunkSize {
		end := start + chunkSize
		if end > len(initial) {
			end = len(initial)
		}
		chunkDesigns := initial[start:end]
		logger.Info("distributed design chunk started", logging.String("run_id", runID), logging.Int("chunk", chunkIdx), logging.Int("chunk_size", len(chunkDesigns)))

		for cycle := 1; cycle <= cfg.TotalCycles; cycle++ {
			next, err := coordinator.expandCycle(ctx, chunkIdx, cycle, chunkDesigns, cfg.Workers)
			if err != nil {
				return nil, err
			}
			chunkDesigns = next
			summary.CycleCounts[cycle-1] += len(chunkDesigns)
			if designGauge != nil {
				designGauge.Set(float64(len(chunkDesigns)))
			}
			logger.Info("distributed cycle complete",
				logging.String("run_id", runID), logging.Int("chunk", chunkIdx), logging.Int("cycle", cycle), logging.Int("designs", len(chunkDesigns)))

			if cfg.DesignsInMemory > 0 && len(chunkDesigns) > cfg.DesignsInMemory && checkpoint == nil {
				return nil, errors.New(errors.CodeDesignBudgetExceeded, "designs-in-memory budget exceeded and no checkpoint store configured")
			}
			if checkpoint != nil {
				if err := checkpoint.SaveCycle(ctx, runID, cycle, chunkDesigns); err != nil {
					return nil, err
				}
			}
		}

		for _, d := range chunkDesigns {
			if !d.IsComplete() || !d.IsTerminallyValid(p) {
				continue
			}
			d.AssignLibID(p)
			coalescer.Add(d, p)
			summary.TotalCompleted++
		}
		chunkDesigns = nil
		for i := start; i < end; i++ {
			initial[i] = nil
		}
		chunkIdx++
	}

	validator := library.NewValidator(p, cfg.TotalCycles, cfg.HistSize)
	libs := coalescer.Libraries()
	summary.DistinctLibIDs = len(libs)
	for _, lib := range libs {
		validator.Validate(lib, catalogue)
		if lib.Eliminate {
			summary.EliminatedLibs++
		}
	}

	coalescer.AssignIDs()

	survivors := make([]*library.LibDesign, 0, len(libs))
	for _, lib := range libs {
		if !lib.Eliminate {
			survivors = append(survivors, lib)
		}
	}

	LogSummary(logger, runID, summary)

	return &DesignResult{RunID: runID, Libraries: survivors, Summary: summary}, nil
}
