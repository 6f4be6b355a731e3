package domain

import "time"

// RestingOrder is one simulated open order. Orders are immutable once placed;
// the evaluator removes them on fill or cancel, it never edits them in place.
type RestingOrder struct {
	ID    string
	Side  Side
	Price float64 // quote currency, 2 decimals
	// Amount is denominated in the side's asset: quote currency for bids,
	// base asset for asks, rounded to that asset's precision.
	Amount   float64
	PlacedAt time.Time
}
