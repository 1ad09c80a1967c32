package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	miniogo "github.com/minio/minio-go/v7"

	"github.com/dnaenc/edesigner/internal/domain/design"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
	"github.com/dnaenc/edesigner/internal/infrastructure/storage/minio"
	"github.com/dnaenc/edesigner/pkg/errors"
)

// Checkpointer archives the growth engine's designs-in-memory snapshot at
// cycle boundaries, so a run can be resumed or audited without re-expanding
// from the first cycle. A nil Checkpointer disables archival entirely.
type Checkpointer interface {
	SaveCycle(ctx context.Context, runID string, cycle int, designs []*design.Design) error
}

// minioCheckpointer is the production Checkpointer, backed by the engine's
// single checkpoint/export bucket under the checkpoints/ prefix.
type minioCheckpointer struct {
	client *minio.Client
	logger logging.Logger
}

// NewMinIOCheckpointer wraps an already-connected MinIO client as a
// Checkpointer.
func NewMinIOCheckpointer(client *minio.Client, logger logging.Logger) Checkpointer {
	return &minioCheckpointer{client: client, logger: logger}
}

// SaveCycle serializes designs as JSON and writes them to
// checkpoints/<runID>/cycle-<cycle>.json.
func (m *minioCheckpointer) SaveCycle(ctx context.Context, runID string, cycle int, designs []*design.Design) error {
	payload, err := json.Marshal(designs)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerializationError, "failed to marshal checkpoint segment")
	}

	key := fmt.Sprintf("%s%s/cycle-%03d.json", minio.PrefixCheckpoints, runID, cycle)
	_, err = m.client.GetClient().PutObject(ctx, m.client.Bucket(), key, bytes.NewReader(payload), int64(len(payload)), miniogo.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "failed to write checkpoint segment "+key)
	}
	m.logger.Debug("checkpoint segment written",
		logging.String("run_id", runID), logging.Int("cycle", cycle), logging.Int("designs", len(designs)))
	return nil
}
