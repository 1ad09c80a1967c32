// Package errors_test provides comprehensive table-driven unit tests for the
// error code definitions in pkg/errors/codes.go.
package errors_test

import (
	"testing"

	"github.com/dnaenc/edesigner/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type codeEntry struct {
	code           errors.ErrorCode
	expectedString string
	expectedFatal  bool
}

// allCodes enumerates every ErrorCode constant defined in codes.go together
// with its expected String() output and Fatal() classification.
var allCodes = []codeEntry{
	{errors.CodeOK, "OK", false},
	{errors.CodeUnknown, "UNKNOWN", true},
	{errors.CodeInvalidParam, "INVALID_PARAM", true},
	{errors.CodeNotFound, "NOT_FOUND", true},
	{errors.CodeConflict, "CONFLICT", true},
	{errors.CodeInternal, "INTERNAL_ERROR", true},
	{errors.CodeNotImplemented, "NOT_IMPLEMENTED", true},

	{errors.CodeParamFileMalformed, "PARAM_FILE_MALFORMED", true},
	{errors.CodeParamReferenceUnresolved, "PARAM_REFERENCE_UNRESOLVED", true},
	{errors.CodeParamValueOutOfRange, "PARAM_VALUE_OUT_OF_RANGE", true},

	{errors.CodeBBTNotFound, "BBT_NOT_FOUND", true},
	{errors.CodeBBTSelfIncompatible, "BBT_SELF_INCOMPATIBLE", true},
	{errors.CodeBBTVectorMismatch, "BBT_VECTOR_MISMATCH", true},

	{errors.CodeMoleculeInvalidSMILES, "MOLECULE_INVALID_SMILES", true},
	{errors.CodeMoleculeDropped, "MOLECULE_DROPPED", false},
	{errors.CodeDuplicateSMILES, "DUPLICATE_SMILES", false},
	{errors.CodeChemToolError, "CHEM_TOOL_ERROR", true},

	{errors.CodeDesignPruned, "DESIGN_PRUNED", false},
	{errors.CodeDesignBudgetExceeded, "DESIGN_BUDGET_EXCEEDED", true},
	{errors.CodeDesignCycleInvalid, "DESIGN_CYCLE_INVALID", true},

	{errors.CodeLibraryDiscarded, "LIBRARY_DISCARDED", false},
	{errors.CodeLibIDCollision, "LIB_ID_COLLISION", true},
	{errors.CodeAtomPartitionUnavailable, "ATOM_PARTITION_UNAVAILABLE", true},

	{errors.CodeDBConnectionError, "DB_CONNECTION_ERROR", true},
	{errors.CodeCacheError, "CACHE_ERROR", true},
	{errors.CodeMessageQueueError, "MESSAGE_QUEUE_ERROR", true},
	{errors.CodeStorageError, "STORAGE_ERROR", true},
	{errors.CodeDatabaseError, "DATABASE_ERROR", true},
	{errors.CodeDBQueryError, "DB_QUERY_ERROR", true},
	{errors.CodeSerializationError, "SERIALIZATION_ERROR", true},
}

func TestErrorCode_String(t *testing.T) {
	t.Parallel()

	for _, tc := range allCodes {
		tc := tc
		t.Run(tc.expectedString, func(t *testing.T) {
			t.Parallel()

			got := tc.code.String()

			assert.NotEmpty(t, got, "String() for code %d must not be empty", int(tc.code))
			assert.Equal(t, tc.expectedString, got, "String() for code %d returned unexpected value", int(tc.code))
		})
	}
}

func TestErrorCode_String_Unknown(t *testing.T) {
	t.Parallel()

	unknownCodes := []errors.ErrorCode{
		errors.ErrorCode(99999),
		errors.ErrorCode(-1),
		errors.ErrorCode(1),
		errors.ErrorCode(12345),
	}

	for _, code := range unknownCodes {
		code := code
		t.Run("", func(t *testing.T) {
			t.Parallel()
			got := code.String()
			assert.NotEmpty(t, got)
			assert.Equal(t, "UNKNOWN_CODE", got)
		})
	}
}

func TestErrorCode_Fatal(t *testing.T) {
	t.Parallel()

	for _, tc := range allCodes {
		tc := tc
		t.Run(tc.expectedString, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expectedFatal, tc.code.Fatal(),
				"Fatal() for %s returned unexpected value", tc.expectedString)
		})
	}
}

func TestErrorCode_Fatal_UnknownDefaultsTrue(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.ErrorCode(99999).Fatal(),
		"an undeclared code must default to fatal so unexpected failures are never silently swallowed")
}

func TestErrorCode_DomainRanges(t *testing.T) {
	t.Parallel()

	type rangeEntry struct {
		code errors.ErrorCode
		low  int
		high int
		name string
	}

	ranges := []rangeEntry{
		{errors.CodeOK, 0, 0, "CodeOK"},
		{errors.CodeUnknown, 10000, 19999, "CodeUnknown"},
		{errors.CodeInvalidParam, 10000, 19999, "CodeInvalidParam"},
		{errors.CodeParamFileMalformed, 10000, 19999, "CodeParamFileMalformed"},
		{errors.CodeBBTNotFound, 20000, 29999, "CodeBBTNotFound"},
		{errors.CodeMoleculeInvalidSMILES, 30000, 39999, "CodeMoleculeInvalidSMILES"},
		{errors.CodeDesignPruned, 40000, 49999, "CodeDesignPruned"},
		{errors.CodeLibraryDiscarded, 50000, 59999, "CodeLibraryDiscarded"},
		{errors.CodeDBConnectionError, 70000, 79999, "CodeDBConnectionError"},
		{errors.CodeStorageError, 70000, 79999, "CodeStorageError"},
	}

	for _, r := range ranges {
		r := r
		t.Run(r.name, func(t *testing.T) {
			t.Parallel()
			v := int(r.code)
			assert.GreaterOrEqual(t, v, r.low, "%s value %d is below domain lower bound %d", r.name, v, r.low)
			assert.LessOrEqual(t, v, r.high, "%s value %d is above domain upper bound %d", r.name, v, r.high)
		})
	}
}
