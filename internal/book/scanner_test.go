package book

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantsim/makerbot/internal/domain"
)

func TestBestPrices(t *testing.T) {
	snap := domain.Snapshot{
		{Price: 1020, Count: 5, Amount: -10},
		{Price: 1000, Count: 2, Amount: 4},
		{Price: 1010, Count: 4, Amount: -5},
		{Price: 1005, Count: 3, Amount: 2},
		{Price: 1002, Count: 2, Amount: 5},
	}

	best := BestPrices(snap)

	assert.Equal(t, 1005.0, best.HighestBid)
	assert.Equal(t, 1010.0, best.LowestAsk)
}

func TestBestPricesIgnoresInactiveLevels(t *testing.T) {
	snap := domain.Snapshot{
		{Price: 2000, Count: 0, Amount: 4},   // inactive bid above everything
		{Price: 900, Count: -1, Amount: -3},  // inactive ask below everything
		{Price: 1000, Count: 1, Amount: 2},
		{Price: 1010, Count: 1, Amount: -2},
	}

	best := BestPrices(snap)

	assert.Equal(t, 1000.0, best.HighestBid)
	assert.Equal(t, 1010.0, best.LowestAsk)
}

func TestBestPricesEmptySides(t *testing.T) {
	assert.Equal(t, domain.BestPrices{}, BestPrices(nil))

	onlyBids := domain.Snapshot{{Price: 1000, Count: 1, Amount: 2}}
	best := BestPrices(onlyBids)
	assert.Equal(t, 1000.0, best.HighestBid)
	assert.Equal(t, 0.0, best.LowestAsk)

	onlyAsks := domain.Snapshot{{Price: 1010, Count: 1, Amount: -2}}
	best = BestPrices(onlyAsks)
	assert.Equal(t, 0.0, best.HighestBid)
	assert.Equal(t, 1010.0, best.LowestAsk)
}

func TestBestPricesFirstAskInitializes(t *testing.T) {
	// The unset (zero) lowest ask must not shadow a real price, whatever the
	// input order.
	snap := domain.Snapshot{
		{Price: 5000, Count: 1, Amount: -1},
		{Price: 4000, Count: 1, Amount: -1},
	}

	best := BestPrices(snap)
	assert.Equal(t, 4000.0, best.LowestAsk)
}
