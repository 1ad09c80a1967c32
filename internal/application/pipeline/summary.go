package pipeline

import "github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"

// LogSummary emits the run-level summary line SPEC_FULL.md's ambient
// "Run-level summary log" supplement calls for: the running design count
// per cycle, then the final completed-design and distinct-lib_id totals.
func LogSummary(logger logging.Logger, runID string, s RunSummary) {
	for i, n := range s.CycleCounts {
		logger.Info("cycle design count",
			logging.String("run_id", runID), logging.Int("cycle", i+1), logging.Int("designs", n))
	}
	logger.Info("run complete",
		logging.String("run_id", runID),
		logging.Int("completed_designs", s.TotalCompleted),
		logging.Int("distinct_lib_ids", s.DistinctLibIDs),
		logging.Int("eliminated_libraries", s.EliminatedLibs),
		logging.Int("surviving_libraries", s.DistinctLibIDs-s.EliminatedLibs))
}
