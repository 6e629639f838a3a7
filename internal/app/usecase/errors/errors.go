package errors

import "errors"

var (
	// ErrNotFound reports that an entity id didn't resolve.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidTransition reports a status change not present in the
	// order lifecycle graph.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrInvalidQuantity reports a ledger delta that would violate
	// non-negativity of stock or sold count.
	ErrInvalidQuantity = errors.New("ledger delta would violate quantity invariant")

	// ErrLedgerFailure reports that a stock or balance update failed
	// partway through a sweep.
	ErrLedgerFailure = errors.New("ledger update failed")

	// ErrPersistenceFailure reports that the final order save failed
	// after side effects were already applied.
	ErrPersistenceFailure = errors.New("order persistence failed")

	// ErrConflict reports that a concurrent transition won the version
	// race on the same order.
	ErrConflict = errors.New("order was modified concurrently")
)
