package maker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsim/makerbot/internal/book"
	"github.com/quantsim/makerbot/internal/domain"
	"github.com/quantsim/makerbot/internal/ledger"
)

func newEvaluator(t *testing.T, l *ledger.Ledger, b *book.Book) (*Evaluator, *memorySink) {
	t.Helper()
	sink := &memorySink{}
	return NewEvaluator(l, b, 0.05, sink, testLogger(t)), sink
}

func resting(side domain.Side, price, amount float64) domain.RestingOrder {
	return domain.RestingOrder{ID: string(side) + "-test", Side: side, Price: price, Amount: amount}
}

func TestEvaluateFillsBid(t *testing.T) {
	l := ledger.New(0, 0)
	b := book.New()
	b.Append(resting(domain.SideBid, 100, 10))
	eval, sink := newEvaluator(t, l, b)

	// Market ask dropped below the resting bid price.
	eval.Evaluate(context.Background(), domain.BestPrices{HighestBid: 100, LowestAsk: 99})

	assert.Equal(t, 0, b.Total())
	assert.InDelta(t, 0.1, l.Balance(domain.AssetBase), 1e-9) // 10 / 100
	assert.Equal(t, 0.0, l.Balance(domain.AssetQuote))
	require.Len(t, sink.byType(domain.EventOrderFilled), 1)
}

func TestEvaluateCancelsDriftedBid(t *testing.T) {
	l := ledger.New(0, 0)
	b := book.New()
	b.Append(resting(domain.SideBid, 90, 10))
	eval, sink := newEvaluator(t, l, b)

	// 90 < 100*0.95, and the ask at 99 has not crossed 90.
	eval.Evaluate(context.Background(), domain.BestPrices{HighestBid: 100, LowestAsk: 99})

	assert.Equal(t, 0, b.Total())
	assert.InDelta(t, 10.0, l.Balance(domain.AssetQuote), 1e-9)
	assert.Equal(t, 0.0, l.Balance(domain.AssetBase))
	require.Len(t, sink.byType(domain.EventOrderCancelled), 1)
}

func TestEvaluateFillsAsk(t *testing.T) {
	l := ledger.New(0, 0)
	b := book.New()
	b.Append(resting(domain.SideAsk, 100, 0.05))
	eval, sink := newEvaluator(t, l, b)

	// Market bid climbed above the resting ask price.
	eval.Evaluate(context.Background(), domain.BestPrices{HighestBid: 101, LowestAsk: 102})

	assert.Equal(t, 0, b.Total())
	assert.InDelta(t, 5.0, l.Balance(domain.AssetQuote), 1e-9) // 100 * 0.05
	assert.Equal(t, 0.0, l.Balance(domain.AssetBase))
	require.Len(t, sink.byType(domain.EventOrderFilled), 1)
}

func TestEvaluateCancelsDriftedAsk(t *testing.T) {
	l := ledger.New(0, 0)
	b := book.New()
	b.Append(resting(domain.SideAsk, 106, 0.05))
	eval, sink := newEvaluator(t, l, b)

	// 106 > 100*1.05 and the bid at 99 has not crossed 106.
	eval.Evaluate(context.Background(), domain.BestPrices{HighestBid: 99, LowestAsk: 100})

	assert.Equal(t, 0, b.Total())
	assert.InDelta(t, 0.05, l.Balance(domain.AssetBase), 1e-9)
	require.Len(t, sink.byType(domain.EventOrderCancelled), 1)
}

func TestEvaluateToleranceBoundaryIsExclusive(t *testing.T) {
	l := ledger.New(0, 0)
	b := book.New()
	// Exactly on the cancel boundaries: 95 == 100*0.95, 105 == 100*1.05.
	b.Append(resting(domain.SideBid, 95, 10))
	b.Append(resting(domain.SideAsk, 105, 0.05))
	eval, sink := newEvaluator(t, l, b)

	eval.Evaluate(context.Background(), domain.BestPrices{HighestBid: 100, LowestAsk: 100})

	// Neither fills (ask 100 >= bid price 95, bid 100 <= ask price 105) nor
	// cancels (strict inequality).
	assert.Equal(t, 2, b.Total())
	assert.Empty(t, sink.events)
}

func TestEvaluateLeavesRestingOrdersUntouched(t *testing.T) {
	l := ledger.New(0, 0)
	b := book.New()
	b.Append(resting(domain.SideBid, 98, 5))
	b.Append(resting(domain.SideAsk, 102, 0.02))
	eval, _ := newEvaluator(t, l, b)

	eval.Evaluate(context.Background(), domain.BestPrices{HighestBid: 100, LowestAsk: 100})

	assert.Equal(t, 2, b.Total())
	quote, base := l.Balances()
	assert.Equal(t, 0.0, quote)
	assert.Equal(t, 0.0, base)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	l := ledger.New(0, 0)
	b := book.New()
	b.Append(resting(domain.SideBid, 100, 10)) // fills
	b.Append(resting(domain.SideBid, 90, 5))   // cancels
	b.Append(resting(domain.SideBid, 98, 5))   // rests
	b.Append(resting(domain.SideAsk, 102, 0.02))
	eval, _ := newEvaluator(t, l, b)

	best := domain.BestPrices{HighestBid: 100, LowestAsk: 99}
	eval.Evaluate(context.Background(), best)

	quote, base := l.Balances()
	total := b.Total()

	// A second pass with the same prices must be a no-op.
	eval.Evaluate(context.Background(), best)

	q2, b2 := l.Balances()
	assert.Equal(t, quote, q2)
	assert.Equal(t, base, b2)
	assert.Equal(t, total, b.Total())
}

func TestEvaluateVisitsEveryOrderOnce(t *testing.T) {
	l := ledger.New(0, 0)
	b := book.New()
	// All four bids cancel; backward scan must remove each exactly once.
	for i := 0; i < 4; i++ {
		b.Append(resting(domain.SideBid, 90, 1))
	}
	eval, sink := newEvaluator(t, l, b)

	eval.Evaluate(context.Background(), domain.BestPrices{HighestBid: 100, LowestAsk: 95})

	assert.Equal(t, 0, b.Total())
	assert.InDelta(t, 4.0, l.Balance(domain.AssetQuote), 1e-9)
	assert.Len(t, sink.byType(domain.EventOrderCancelled), 4)
}
