// Package postgres provides PostgreSQL connection pool management, transaction
// handling, and health-check utilities for the edesigner library design engine.
// The connection pool is created once at application startup and injected into
// all repository implementations.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
)

// CatalogueRow is one persisted row of a classify run's BBT catalogue
// descriptor: a single building-block type's identity, display order, and
// compound-count summary, keyed by the run that produced it.
type CatalogueRow struct {
	Index         int
	Triple        [3]int
	Multi         int
	Order         int
	TotalCount    int
	InternalCount int
	ExternalCount int
	MinAtoms      int
	MaxAtoms      int
	SMILESExample string
	IsHeadpiece   bool
}

// LibDesignRecord is one persisted LibDesign from a design run: the
// coalesced equivalence class of every completed design sharing a lib_id,
// keyed by the run that produced it.
type LibDesignRecord struct {
	LibDesignID     int
	DesignIDs       []int
	NCycles         int
	BBTs            [][]int
	Headpiece       int
	ReactionEnumIDs []int
	DeprotEnumIDs   []int
	ScaffoldAtoms   int
	Eliminate       bool
	NAll            int
	NInt            int
}

// Repository persists the BBT catalogue descriptor stream and the LibDesign
// stream a run produces, for durable retrieval and cross-run auditing
// independent of the local output files the CLI also writes.
type Repository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewRepository wraps an already-connected, already-migrated pool as a
// Repository.
func NewRepository(pool *pgxpool.Pool, logger logging.Logger) *Repository {
	return &Repository{pool: pool, logger: logger}
}

// SaveCatalogueDescriptor persists every row of a classify run's catalogue
// descriptor under runID, replacing any prior rows for that run.
func (r *Repository) SaveCatalogueDescriptor(ctx context.Context, runID string, rows []CatalogueRow) error {
	return WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM bbt_catalogue_descriptors WHERE run_id = $1`, runID); err != nil {
			return fmt.Errorf("clearing prior catalogue descriptor: %w", err)
		}

		batch := &pgx.Batch{}
		for _, row := range rows {
			triple, err := json.Marshal(row.Triple)
			if err != nil {
				return fmt.Errorf("marshaling triple: %w", err)
			}
			batch.Queue(`
				INSERT INTO bbt_catalogue_descriptors
					(run_id, bbt_index, triple, multi, display_order, total_count, internal_count, external_count, min_atoms, max_atoms, smiles_example, is_headpiece)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				runID, row.Index, triple, row.Multi, row.Order, row.TotalCount, row.InternalCount, row.ExternalCount, row.MinAtoms, row.MaxAtoms, row.SMILESExample, row.IsHeadpiece)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for range rows {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("inserting catalogue descriptor row: %w", err)
			}
		}
		return nil
	})
}

// SaveLibDesigns persists every surviving LibDesign from a design run under
// runID, replacing any prior rows for that run.
func (r *Repository) SaveLibDesigns(ctx context.Context, runID string, records []LibDesignRecord) error {
	return WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM lib_designs WHERE run_id = $1`, runID); err != nil {
			return fmt.Errorf("clearing prior lib_design stream: %w", err)
		}

		batch := &pgx.Batch{}
		for _, rec := range records {
			bbts, err := json.Marshal(rec.BBTs)
			if err != nil {
				return fmt.Errorf("marshaling bbts: %w", err)
			}
			designIDs, err := json.Marshal(rec.DesignIDs)
			if err != nil {
				return fmt.Errorf("marshaling design ids: %w", err)
			}
			reactionEnumIDs, err := json.Marshal(rec.ReactionEnumIDs)
			if err != nil {
				return fmt.Errorf("marshaling reaction enum ids: %w", err)
			}
			deprotEnumIDs, err := json.Marshal(rec.DeprotEnumIDs)
			if err != nil {
				return fmt.Errorf("marshaling deprotection enum ids: %w", err)
			}
			batch.Queue(`
				INSERT INTO lib_designs
					(run_id, lib_design_id, design_ids, n_cycles, bbts, headpiece, reaction_enum_ids, deprot_enum_ids, scaffold_atoms, eliminate, n_all, n_int)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				runID, rec.LibDesignID, designIDs, rec.NCycles, bbts, rec.Headpiece, reactionEnumIDs, deprotEnumIDs, rec.ScaffoldAtoms, rec.Eliminate, rec.NAll, rec.NInt)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for range records {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("inserting lib_design row: %w", err)
			}
		}
		return nil
	})
}
