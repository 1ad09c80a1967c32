package pipeline

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/design"
	"github.com/dnaenc/edesigner/internal/domain/param"
	"github.com/dnaenc/edesigner/internal/infrastructure/messaging/kafka"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
	"github.com/dnaenc/edesigner/pkg/errors"
)

// ShardBatch is one unit of distributed cycle-expansion work: a run
// identifier, the chunk and cycle about to be expanded, and the partial
// designs a edesigner-worker process should run AddCycle against. Chunk
// disambiguates the coordinator's DesignsInMemory-bounded passes, since
// cycle numbers restart at 1 for every chunk within the same run.
type ShardBatch struct {
	RunID   string           `json:"run_id"`
	Chunk   int              `json:"chunk"`
	Cycle   int              `json:"cycle"`
	Shard   int              `json:"shard"`
	Designs []*design.Design `json:"designs"`
}

// ResultBatch is the expanded counterpart of a ShardBatch, published to the
// result topic for the coordinating coalescer to merge.
type ResultBatch struct {
	RunID   string           `json:"run_id"`
	Chunk   int              `json:"chunk"`
	Cycle   int              `json:"cycle"`
	Shard   int              `json:"shard"`
	Designs []*design.Design `json:"designs"`
}

// NewShardExpansionHandler builds the Kafka MessageHandler a design-worker
// process registers against its consumer's shard topic: it decodes a
// ShardBatch, runs one cycle's expansion locally, and publishes the
// resulting ResultBatch to producer's result topic. p and catalogue are
// shared, read-only, across every shard a worker process handles.
func NewShardExpansionHandler(p *param.Params, catalogue *bbt.Catalogue, producer *kafka.Producer, resultTopic string, logger logging.Logger) kafka.MessageHandler {
	rs := design.NewRuleSet(p)
	available := design.AvailableBBTIndexes(catalogue)

	return func(ctx context.Context, msg *kafka.Message) error {
		var batch ShardBatch
		if err := json.Unmarshal(msg.Value, &batch); err != nil {
			return errors.Wrap(err, errors.CodeSerializationError, "failed to decode shard batch")
		}

		expanded := design.ExpandAll(batch.Designs, rs, p, catalogue, available)

		result := ResultBatch{RunID: batch.RunID, Chunk: batch.Chunk, Cycle: batch.Cycle, Shard: batch.Shard, Designs: expanded}
		payload, err := json.Marshal(result)
		if err != nil {
			return errors.Wrap(err, errors.CodeSerializationError, "failed to encode result batch")
		}

		logger.Info("shard expanded",
			logging.String("run_id", batch.RunID), logging.Int("chunk", batch.Chunk), logging.Int("cycle", batch.Cycle),
			logging.Int("shard", batch.Shard), logging.Int("in", len(batch.Designs)), logging.Int("out", len(expanded)))

		return producer.Publish(ctx, &kafka.ProducerMessage{
			Topic: resultTopic,
			Key:   []byte(batch.RunID),
			Value: payload,
			Headers: map[string]string{
				"run_id": batch.RunID,
				"cycle":  strconv.Itoa(batch.Cycle),
				"shard":  strconv.Itoa(batch.Shard),
			},
		})
	}
}
