package domain

import (
	"encoding/json"
	"fmt"
)

// SnapshotEntry is one price level of a market order-book snapshot. On the
// wire it is a 3-element numeric tuple [price, count, amount]: count > 0 marks
// an active level, amount > 0 a bid-side level, amount < 0 an ask-side level.
type SnapshotEntry struct {
	Price  float64
	Count  int
	Amount float64
}

// Snapshot is one point-in-time read of the market order book. No ordering or
// price uniqueness is assumed.
type Snapshot []SnapshotEntry

// UnmarshalJSON decodes the wire tuple form [price, count, amount].
func (e *SnapshotEntry) UnmarshalJSON(data []byte) error {
	var tuple []float64
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("snapshot entry: %w", err)
	}
	if len(tuple) != 3 {
		return fmt.Errorf("snapshot entry: expected 3 elements, got %d", len(tuple))
	}
	e.Price = tuple[0]
	e.Count = int(tuple[1])
	e.Amount = tuple[2]
	return nil
}

// MarshalJSON encodes the entry back into its wire tuple form.
func (e SnapshotEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{e.Price, float64(e.Count), e.Amount})
}

// BestPrices is the result of scanning a snapshot: the best resting bid and
// ask prices. A zero value means the corresponding side had no active levels.
type BestPrices struct {
	HighestBid float64
	LowestAsk  float64
}
