package pipeline

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/design"
	"github.com/dnaenc/edesigner/internal/domain/library"
	"github.com/dnaenc/edesigner/internal/domain/param"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/prometheus"
	"github.com/dnaenc/edesigner/pkg/errors"
)

// DesignConfig bounds one growth-engine run: how many initial designs are
// grown through all cycles together before their survivors are coalesced
// and released, how wide the per-cycle fan-out may go, and which
// total_cycles values the run permits.
type DesignConfig struct {
	TotalCycles     int
	// DesignsInMemory caps how many initial designs RunDesign carries
	// through all cycles in one pass (a "chunk"). Each chunk's designs are
	// grown, coalesced, and released before the next chunk starts, so the
	// growth engine's peak resident design count stays bounded by this
	// value (times the per-cycle branching factor) regardless of how many
	// initial designs the full run covers. A value <= 0 disables chunking
	// and processes every initial design in one pass.
	DesignsInMemory    int
	Workers            int
	AllowedCycleCounts []int // empty means unrestricted
	HistSize           int   // length of the validator's atom-partition axis
}

// DesignResult is the outcome of one full growth-engine run: every
// validated LibDesign, plus the summary counters §4's "run-level summary
// log" supplement calls for.
type DesignResult struct {
	RunID      string
	Libraries  []*library.LibDesign
	Summary    RunSummary
}

// RunSummary is the per-run, per-cycle accounting the driver logs: running
// design counts across cycles, and the final completed-design / distinct
// lib_id counts (SPEC_FULL.md §4 "Run-level summary log").
type RunSummary struct {
	CycleCounts      []int // CycleCounts[i] = number of designs surviving cycle i+1
	TotalCompleted   int
	DistinctLibIDs   int
	EliminatedLibs   int
}

// RunDesign grows every initial design to TotalCycles cycles, coalesces the
// survivors into libraries, validates each, and returns the libraries that
// passed. Initial designs are processed in cfg.DesignsInMemory-sized chunks,
// each grown through every cycle and coalesced before the next chunk starts,
// bounding the growth engine's peak resident design count instead of
// holding the entire run's population at once. Within a chunk, the
// per-cycle expansion is fanned out across a bounded worker pool sized by
// cfg.Workers; if checkpoint is non-nil, each cycle's surviving designs are
// archived before the next cycle begins.
func RunDesign(ctx context.Context, p *param.Params, catalogue *bbt.Catalogue, cfg DesignConfig, checkpoint Checkpointer, logger logging.Logger, metrics prometheus.MetricsCollector) (*DesignResult, error) {
	if err := checkCycleCountAllowed(cfg); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	rs := design.NewRuleSet(p)
	available := design.AvailableBBTIndexes(catalogue)

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

	for start := 0; start < len(initial); start += chunkSize {
		end := start + chunkSize
		if end > len(initial) {
			end = len(initial)
		}
		chunk := initial[start:end]
		logger.Info("design chunk started", logging.String("run_id", runID), logging.Int("chunk_start", start), logging.Int("chunk_size", len(chunk)))

		for cycle := 1; cycle <= cfg.TotalCycles; cycle++ {
			next, err := expandConcurrently(ctx, chunk, rs, p, catalogue, available, cfg.Workers)
			if err != nil {
				return nil, err
			}
			chunk = next
			summary.CycleCounts[cycle-1] += len(chunk)
			if designGauge != nil {
				designGauge.Set(float64(len(chunk)))
			}
			logger.Info("cycle complete",
				logging.String("run_id", runID), logging.Int("chunk_start", start), logging.Int("cycle", cycle), logging.Int("designs", len(chunk)))

			if cfg.DesignsInMemory > 0 && len(chunk) > cfg.DesignsInMemory {
				if checkpoint == nil {
					return nil, errors.New(errors.CodeDesignBudgetExceeded, "designs-in-memory budget exceeded and no checkpoint store configured")
				}
			}
			if checkpoint != nil {
				if err := checkpoint.SaveCycle(ctx, runID, cycle, chunk); err != nil {
					return nil, err
				}
			}
		}

		for _, d := range chunk {
			if !d.IsComplete() || !d.IsTerminallyValid(p) {
				continue
			}
			d.AssignLibID(p)
			coalescer.Add(d, p)
			summary.TotalCompleted++
		}
		// Release this chunk's grown designs before the next chunk starts
		// growing from the initial population; only the coalescer's
		// per-LibDesign accumulation survives across chunks.
		chunk = nil
		for i := start; i < end; i++ {
			initial[i] = nil
		}
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

// expandConcurrently partitions designs into cfg.Workers-sized shares and
// runs AddCycle on each share concurrently, mirroring the worker pool the
// distributed (Kafka) path uses for the same transition on a remote shard.
func expandConcurrently(ctx context.Context, designs []*design.Design, rs *design.RuleSet, p *param.Params, catalogue *bbt.Catalogue, available []int, workers int) ([]*design.Design, error) {
	if workers < 1 {
		workers = 1
	}
	if len(designs) == 0 {
		return nil, nil
	}

	shares := partition(designs, workers)
	results := make([][]*design.Design, len(shares))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, share := range shares {
		i, share := i, share
		g.Go(func() error {
			results[i] = design.ExpandAll(share, rs, p, catalogue, available)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*design.Design
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// partition splits designs into at most n roughly-equal, contiguous shares.
func partition(designs []*design.Design, n int) [][]*design.Design {
	if n > len(designs) {
		n = len(designs)
	}
	if n < 1 {
		n = 1
	}
	shares := make([][]*design.Design, 0, n)
	size := (len(designs) + n - 1) / n
	for i := 0; i < len(designs); i += size {
		end := i + size
		if end > len(designs) {
			end = len(designs)
		}
		shares = append(shares, designs[i:end])
	}
	return shares
}

func checkCycleCountAllowed(cfg DesignConfig) error {
	if len(cfg.AllowedCycleCounts) == 0 {
		return nil
	}
	for _, n := range cfg.AllowedCycleCounts {
		if n == cfg.TotalCycles {
			return nil
		}
	}
	return errors.New(errors.CodeDesignCycleInvalid, "total_cycles is not among the configured allowed_cycle_counts")
}
