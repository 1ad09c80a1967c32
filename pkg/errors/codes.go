// Package errors provides centralized error code definitions for the edesigner
// library design engine. Codes are grouped by the pipeline stage that raises them.
package errors

// ErrorCode represents a typed error code used throughout the engine.
// Codes are partitioned by domain to avoid conflicts and simplify maintenance.
type ErrorCode int

// ─────────────────────────────────────────────────────────────────────────────
// General / cross-cutting error codes  (1xxxx)
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeOK indicates no error.
	CodeOK ErrorCode = 0

	// CodeUnknown is a catch-all for errors that have not been categorised.
	CodeUnknown ErrorCode = 10000

	// CodeInvalidParam is returned when a parameter file or CLI flag fails
	// validation (missing required column, type mismatch, out-of-range value).
	CodeInvalidParam ErrorCode = 10001

	// CodeNotFound is returned when a referenced file, FG, BBT, or reaction
	// does not exist.
	CodeNotFound ErrorCode = 10004

	// CodeConflict is returned when an operation violates a uniqueness or
	// state constraint.
	CodeConflict ErrorCode = 10005

	// CodeInternal is returned for unexpected failures not attributable to
	// caller input.
	CodeInternal ErrorCode = 10007

	// CodeNotImplemented is returned when a requested feature is not yet
	// implemented.
	CodeNotImplemented ErrorCode = 10008
)

// ─────────────────────────────────────────────────────────────────────────────
// Parameter model error codes  (1xxxx, parameter-reader specific)
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeParamFileMalformed is returned when a parameter file's orientation,
	// column headers, or separators cannot be parsed.
	CodeParamFileMalformed ErrorCode = 11001

	// CodeParamReferenceUnresolved is returned when a parameter row references
	// an FG, reaction, or headpiece name that is not defined elsewhere in the
	// parameter set.
	CodeParamReferenceUnresolved ErrorCode = 11002

	// CodeParamValueOutOfRange is returned when a numeric parameter (atom
	// budget, limit, percentile) falls outside its documented valid range.
	CodeParamValueOutOfRange ErrorCode = 11003
)

// ─────────────────────────────────────────────────────────────────────────────
// BBT catalogue error codes  (2xxxx)
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeBBTNotFound is returned when a BBT referenced by index or name
	// cannot be located in the catalogue.
	CodeBBTNotFound ErrorCode = 20001

	// CodeBBTSelfIncompatible is returned when a BBT's own FG set fails the
	// self-compatibility filter (would react with itself).
	CodeBBTSelfIncompatible ErrorCode = 20002

	// CodeBBTVectorMismatch is returned when a BBT's long vector length does
	// not match the catalogue's FG dimension.
	CodeBBTVectorMismatch ErrorCode = 20003
)

// ─────────────────────────────────────────────────────────────────────────────
// Classifier / molecule-dropped error codes  (3xxxx)
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeMoleculeInvalidSMILES is returned when a provided SMILES string
	// cannot be parsed or canonicalised by the ChemTool collaborator.
	CodeMoleculeInvalidSMILES ErrorCode = 30001

	// CodeMoleculeDropped is not a hard failure; it records that a molecule
	// was intentionally excluded by a coarse filter, antiFG match, or
	// repeated-FG rule. Carried as the Code on informational AppErrors
	// returned alongside drop counters.
	CodeMoleculeDropped ErrorCode = 30002

	// CodeDuplicateSMILES is returned when a molecule's canonical SMILES has
	// already been ingested from an earlier source file.
	CodeDuplicateSMILES ErrorCode = 30003

	// CodeChemToolError is returned when the injected ChemTool collaborator
	// fails (descriptor calculation, canonicalisation, atom counting).
	CodeChemToolError ErrorCode = 30004
)

// ─────────────────────────────────────────────────────────────────────────────
// Growth engine error codes  (4xxxx)
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeDesignPruned is not a hard failure; it records that a partial
	// design was discarded by one of the pruning rules P1-P7.
	CodeDesignPruned ErrorCode = 40001

	// CodeDesignBudgetExceeded is returned when the growth engine's
	// designs-in-memory budget is exceeded and no checkpoint flush is
	// configured to relieve it.
	CodeDesignBudgetExceeded ErrorCode = 40002

	// CodeDesignCycleInvalid is returned when a design's cycle count falls
	// outside the configured AllowedCycleCounts gate.
	CodeDesignCycleInvalid ErrorCode = 40003
)

// ─────────────────────────────────────────────────────────────────────────────
// Coalescer / validator error codes  (5xxxx)
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeLibraryDiscarded is not a hard failure; it records that a
	// coalesced LibDesign failed validation (min_count, atom budget).
	CodeLibraryDiscarded ErrorCode = 50001

	// CodeLibIDCollision is returned when two designs resolve to the same
	// lib_id but carry incompatible topology metadata.
	CodeLibIDCollision ErrorCode = 50002

	// CodeAtomPartitionUnavailable is returned when the precomputed
	// get_all_indexes-style atom-partition table has no entry for a
	// requested total atom count.
	CodeAtomPartitionUnavailable ErrorCode = 50003
)

// ─────────────────────────────────────────────────────────────────────────────
// Infrastructure error codes  (7xxxx)
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeDBConnectionError is returned when the application cannot
	// establish or re-use a connection to PostgreSQL.
	CodeDBConnectionError ErrorCode = 70001

	// CodeCacheError is returned when a Redis operation fails due to
	// connection loss, timeout, or an unexpected response.
	CodeCacheError ErrorCode = 70002

	// CodeMessageQueueError is returned when producing to or consuming from
	// a Kafka topic fails.
	CodeMessageQueueError ErrorCode = 70004

	// CodeStorageError is returned when a MinIO object storage operation
	// fails.
	CodeStorageError ErrorCode = 70005

	// CodeDatabaseError is a general error for database-related failures
	// that are not specifically connection issues.
	CodeDatabaseError ErrorCode = 70006

	// CodeDBQueryError is returned when a database query fails due to syntax
	// errors, constraint violations, or other execution-time failures.
	CodeDBQueryError ErrorCode = 70007

	// CodeSerializationError is returned when marshalling or unmarshalling a
	// cached value fails.
	CodeSerializationError ErrorCode = 70008
)

// String returns the human-readable name associated with an ErrorCode.
// It is safe to call on any value, including unknown codes.
func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeUnknown:
		return "UNKNOWN"
	case CodeInvalidParam:
		return "INVALID_PARAM"
	case CodeNotFound:
		return "NOT_FOUND"
	case CodeConflict:
		return "CONFLICT"
	case CodeInternal:
		return "INTERNAL_ERROR"
	case CodeNotImplemented:
		return "NOT_IMPLEMENTED"

	case CodeParamFileMalformed:
		return "PARAM_FILE_MALFORMED"
	case CodeParamReferenceUnresolved:
		return "PARAM_REFERENCE_UNRESOLVED"
	case CodeParamValueOutOfRange:
		return "PARAM_VALUE_OUT_OF_RANGE"

	case CodeBBTNotFound:
		return "BBT_NOT_FOUND"
	case CodeBBTSelfIncompatible:
		return "BBT_SELF_INCOMPATIBLE"
	case CodeBBTVectorMismatch:
		return "BBT_VECTOR_MISMATCH"

	case CodeMoleculeInvalidSMILES:
		return "MOLECULE_INVALID_SMILES"
	case CodeMoleculeDropped:
		return "MOLECULE_DROPPED"
	case CodeDuplicateSMILES:
		return "DUPLICATE_SMILES"
	case CodeChemToolError:
		return "CHEM_TOOL_ERROR"

	case CodeDesignPruned:
		return "DESIGN_PRUNED"
	case CodeDesignBudgetExceeded:
		return "DESIGN_BUDGET_EXCEEDED"
	case CodeDesignCycleInvalid:
		return "DESIGN_CYCLE_INVALID"

	case CodeLibraryDiscarded:
		return "LIBRARY_DISCARDED"
	case CodeLibIDCollision:
		return "LIB_ID_COLLISION"
	case CodeAtomPartitionUnavailable:
		return "ATOM_PARTITION_UNAVAILABLE"

	case CodeDBConnectionError:
		return "DB_CONNECTION_ERROR"
	case CodeCacheError:
		return "CACHE_ERROR"
	case CodeMessageQueueError:
		return "MESSAGE_QUEUE_ERROR"
	case CodeStorageError:
		return "STORAGE_ERROR"
	case CodeDatabaseError:
		return "DATABASE_ERROR"
	case CodeDBQueryError:
		return "DB_QUERY_ERROR"
	case CodeSerializationError:
		return "SERIALIZATION_ERROR"

	default:
		return "UNKNOWN_CODE"
	}
}

// Fatal reports whether an error code represents a run-terminating condition
// as opposed to an informational per-item outcome (a drop, a prune, a
// discard) that the pipeline counts and continues past. The CLI uses this to
// decide its process exit code.
func (c ErrorCode) Fatal() bool {
	switch c {
	case CodeOK, CodeMoleculeDropped, CodeDuplicateSMILES, CodeDesignPruned, CodeLibraryDiscarded:
		return false
	default:
		return true
	}
}
