package pipeline

import (
	"context"

	"github.com/dnaenc/edesigner/internal/domain/library"
	"github.com/dnaenc/edesigner/internal/infrastructure/database/postgres"
)

// CatalogueStore persists a classify run's catalogue descriptor durably, so
// it survives independent of the local --output report file.
type CatalogueStore interface {
	SaveCatalogueDescriptor(ctx context.Context, runID string, d CatalogueDescriptor) error
}

// LibDesignStore persists a design run's surviving LibDesigns durably, so
// the library stream survives independent of the local libraries.jsonl file.
type LibDesignStore interface {
	SaveLibDesigns(ctx context.Context, runID string, libs []*library.LibDesign) error
}

// postgresStore is the production CatalogueStore/LibDesignStore, backed by
// the engine's Postgres repository.
type postgresStore struct {
	repo *postgres.Repository
}

// NewPostgresStore wraps an already-connected, already-migrated Postgres
// repository as a CatalogueStore and LibDesignStore.
func NewPostgresStore(repo *postgres.Repository) interface {
	CatalogueStore
	LibDesignStore
} {
	return &postgresStore{repo: repo}
}

func (s *postgresStore) SaveCatalogueDescriptor(ctx context.Context, runID string, d CatalogueDescriptor) error {
	rows := make([]postgres.CatalogueRow, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = postgres.CatalogueRow{
			Index:         r.Index,
			Triple:        r.Triple,
			Multi:         r.Multi,
			Order:         r.Order,
			TotalCount:    r.TotalCount,
			InternalCount: r.InternalCount,
			ExternalCount: r.ExternalCount,
			MinAtoms:      r.MinAtoms,
			MaxAtoms:      r.MaxAtoms,
			SMILESExample: r.SMILESExample,
			IsHeadpiece:   r.IsHeadpiece,
		}
	}
	return s.repo.SaveCatalogueDescriptor(ctx, runID, rows)
}

func (s *postgresStore) SaveLibDesigns(ctx context.Context, runID string, libs []*library.LibDesign) error {
	records := make([]postgres.LibDesignRecord, len(libs))
	for i, lib := range libs {
		records[i] = postgres.LibDesignRecord{
			LibDesignID:     lib.ID,
			DesignIDs:       lib.DesignIDs,
			NCycles:         lib.NCycles,
			BBTs:            lib.BBTs,
			Headpiece:       lib.Headpiece,
			ReactionEnumIDs: lib.ReactionEnumIDs,
			DeprotEnumIDs:   lib.DeprotEnumIDs,
			ScaffoldAtoms:   lib.ScaffoldAtoms,
			Eliminate:       lib.Eliminate,
			NAll:            lib.NAll,
			NInt:            lib.NInt,
		}
	}
	return s.repo.SaveLibDesigns(ctx, runID, records)
}
