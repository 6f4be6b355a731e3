// Package book provides the order-book snapshot scanner and the bot's own
// book of resting simulated orders.
package book

import "github.com/quantsim/makerbot/internal/domain"

// BestPrices reduces a snapshot to the best resting bid and ask prices.
// Entries with count <= 0 are inactive and never influence the result. A
// positive amount marks a bid level, a negative amount an ask level. When a
// side has no active levels its price stays 0; when scanning asks the zero
// value is treated as unset so the first ask level always initializes it.
func BestPrices(snap domain.Snapshot) domain.BestPrices {
	var best domain.BestPrices

	for _, entry := range snap {
		if entry.Count <= 0 {
			continue
		}
		if entry.Amount > 0 && entry.Price > best.HighestBid {
			best.HighestBid = entry.Price
		}
		if entry.Amount < 0 && (entry.Price < best.LowestAsk || best.LowestAsk == 0) {
			best.LowestAsk = entry.Price
		}
	}

	return best
}
