package book

import "errors"

// Structural faults. Business outcomes — partial fills, FOK kills,
// unmatched IOC tails, unfilled market residuals — are never errors; they
// are reported via the returned trade list per spec.md §7.
var (
	// ErrCallbackFault wraps a panic recovered from a user-supplied trade
	// callback. The triggering trade has already been committed to book
	// state and returned to the caller before this error surfaces.
	ErrCallbackFault = errors.New("book: trade callback panicked")
)
