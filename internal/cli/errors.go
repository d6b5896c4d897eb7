package cli

import (
	"errors"

	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/query"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Config and store errors
	ErrConfigInvalid = "CONFIG_INVALID"
	ErrStoreError    = "STORE_ERROR"
	ErrFileNotFound  = "FILE_NOT_FOUND"

	// Object errors
	ErrObjectNotFound = "OBJECT_NOT_FOUND"
	ErrTypeInvalid    = "TYPE_INVALID"
	ErrCycleDetected  = "CYCLE_DETECTED"
	ErrUnimplemented  = "UNIMPLEMENTED"

	// Query errors
	ErrQueryInvalid = "QUERY_INVALID"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnPendingEdits = "PENDING_EDITS"
	WarnAuditFailed  = "AUDIT_FAILED"
	WarnNoCommand    = "NO_CHECK_COMMAND"
	WarnNotPersisted = "NOT_PERSISTED"
	WarnReloadFailed = "RELOAD_FAILED"
	WarnUnknownField = "UNKNOWN_FIELD"
)

// classifyError maps model and query errors to an error code and a hint.
func classifyError(err error) (string, string) {
	var parseErr *query.ParseError
	switch {
	case errors.Is(err, model.ErrNotFound):
		return ErrObjectNotFound, "Run 'nagmodel list <type>' to see available objects"
	case errors.Is(err, model.ErrCycleDetected):
		return ErrCycleDetected, "Check the use attributes of the templates in the chain"
	case errors.Is(err, model.ErrUnimplemented):
		return ErrUnimplemented, ""
	case errors.As(err, &parseErr):
		return ErrQueryInvalid, "Filters look like field=value or field__startswith=value"
	default:
		return ErrInternal, ""
	}
}
