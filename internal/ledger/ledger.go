// Package ledger tracks the bot's simulated asset balances.
package ledger

import "github.com/quantsim/makerbot/internal/domain"

// Ledger holds the quote and base balances owned by a single engine instance.
// It is not safe for concurrent use; the engine serializes access.
type Ledger struct {
	balances map[domain.Asset]float64
}

// New creates a Ledger with the given starting balances.
func New(quote, base float64) *Ledger {
	return &Ledger{
		balances: map[domain.Asset]float64{
			domain.AssetQuote: quote,
			domain.AssetBase:  base,
		},
	}
}

// Balance returns the current balance of the named asset.
func (l *Ledger) Balance(asset domain.Asset) float64 {
	return l.balances[asset]
}

// Debit reduces the named balance by amount rounded to the asset's precision.
// Callers validate that the debit cannot drive the balance negative.
func (l *Ledger) Debit(asset domain.Asset, amount float64) {
	l.balances[asset] -= domain.Round(amount, asset.Precision())
}

// Credit increases the named balance by amount rounded to the asset's
// precision. Credits are unconditional.
func (l *Ledger) Credit(asset domain.Asset, amount float64) {
	l.balances[asset] += domain.Round(amount, asset.Precision())
}

// Balances returns both balances at once, for reporting.
func (l *Ledger) Balances() (quote, base float64) {
	return l.balances[domain.AssetQuote], l.balances[domain.AssetBase]
}
