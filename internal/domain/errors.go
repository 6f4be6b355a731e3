package domain

import "errors"

var (
	// ErrInvalidCount rejects an order-generation request with a non-positive
	// count. The caller's state is untouched when it is returned.
	ErrInvalidCount = errors.New("order count must be positive")

	// ErrCapacityExceeded signals that the ledger balance could not fund
	// further orders. Orders already generated in the same call remain valid.
	ErrCapacityExceeded = errors.New("insufficient balance to place order")

	// ErrSourceUnavailable marks a failed snapshot fetch. It aborts the
	// current cycle only; the next scheduled cycle retries independently.
	ErrSourceUnavailable = errors.New("snapshot source unavailable")
)
