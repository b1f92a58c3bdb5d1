package assist

import "errors"

// Lifecycle errors.
var (
	// ErrNoPendingSuggestion indicates accept was called while idle.
	// A warning, not a failure: nothing was mutated.
	ErrNoPendingSuggestion = errors.New("no pending suggestion")

	// ErrDocumentUnavailable indicates the target document identity could
	// not be resolved at accept time. The state returns to idle without
	// mutation.
	ErrDocumentUnavailable = errors.New("target document unavailable")

	// ErrApplyFailed indicates the host rejected the edit. The original
	// document is left untouched.
	ErrApplyFailed = errors.New("failed to apply suggestion")

	// ErrOperationInFlight indicates a lifecycle call landed while a prior
	// accept or reject was still executing. The call is refused, not
	// queued.
	ErrOperationInFlight = errors.New("suggestion operation already in flight")

	// ErrManagerDisposed indicates the manager was already disposed.
	ErrManagerDisposed = errors.New("suggestion manager disposed")

	// ErrInvalidRange indicates a presented range is malformed.
	ErrInvalidRange = errors.New("invalid suggestion range")
)
