package domain

import "context"

// SnapshotSource fetches a market order-book snapshot. Implementations must
// honour ctx deadlines; the engine treats any error as SourceUnavailable.
type SnapshotSource interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// Sink receives reporting events. Sink errors are logged by the dispatcher
// and never propagate into the trading cycle.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
	Name() string
}

// Rand is the source of uniform randomness for order pricing and sizing.
// Tests substitute a scripted sequence to assert exact outputs.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}
