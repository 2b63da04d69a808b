package cssbase64

import "errors"

// Sentinel errors for library operations.
var (
	// ErrStreamNotSupported is returned by Process for documents whose
	// content is a stream. It is the only error that aborts a document.
	ErrStreamNotSupported = errors.New("stream not supported")

	// ErrPatternMatch wraps a failure of the matching engine itself
	// (for example a catastrophic-backtracking timeout in a custom pattern).
	ErrPatternMatch = errors.New("pattern matching failed")

	// Configuration validation errors.
	ErrInvalidMaxWeight = errors.New("invalid max weight")
	ErrInvalidExtension = errors.New("invalid allowed extension")
	ErrInvalidPattern   = errors.New("invalid pattern")
	ErrInvalidTimeout   = errors.New("invalid timeout")
)
