package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantsim/makerbot/internal/domain"
)

func TestLedgerDebitCredit(t *testing.T) {
	l := New(20, 0.1)

	l.Debit(domain.AssetQuote, 4.5)
	l.Credit(domain.AssetBase, 0.025)

	assert.InDelta(t, 15.5, l.Balance(domain.AssetQuote), 1e-9)
	assert.InDelta(t, 0.125, l.Balance(domain.AssetBase), 1e-9)
}

func TestLedgerRoundsToAssetPrecision(t *testing.T) {
	l := New(100, 1)

	// Quote amounts round to 2 decimals, base to 5.
	l.Debit(domain.AssetQuote, 1.006)
	assert.InDelta(t, 100-1.01, l.Balance(domain.AssetQuote), 1e-9)

	l.Credit(domain.AssetBase, 0.0000051)
	assert.InDelta(t, 1.00001, l.Balance(domain.AssetBase), 1e-9)
}

func TestLedgerBalances(t *testing.T) {
	l := New(20, 0.1)

	quote, base := l.Balances()
	assert.Equal(t, 20.0, quote)
	assert.Equal(t, 0.1, base)
}
