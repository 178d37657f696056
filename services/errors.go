// services/errors.go
package services

import "errors"

// The three fatal error classes of a run. Every failure path wraps one of
// these so main can classify with errors.Is; none of them is retried within
// the run. Re-invocation is the operator's call, and a failed run leaves
// the store untouched so the identical invocation is always safe to retry.
var (
	// ErrConfiguration covers missing or invalid arguments and
	// configuration, detected before any network or store activity.
	ErrConfiguration = errors.New("configuration error")

	// ErrFetch covers a remote page request that failed after the
	// client's own retries were exhausted.
	ErrFetch = errors.New("fetch failed")

	// ErrWrite covers store failures; the batch transaction has been
	// rolled back when this surfaces.
	ErrWrite = errors.New("write failed")
)
