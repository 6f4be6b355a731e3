package maker

import (
	"context"
	"log/slog"
	"time"

	"github.com/quantsim/makerbot/internal/book"
	"github.com/quantsim/makerbot/internal/domain"
	"github.com/quantsim/makerbot/internal/ledger"
)

// Evaluator decides, per resting order, whether the market has crossed it
// (fill) or drifted beyond the tolerance band (cancel), crediting the ledger
// and removing the order either way.
type Evaluator struct {
	ledger *ledger.Ledger
	book   *book.Book
	// spreadTolerance is the fraction past the best price at which a resting
	// order is cancelled.
	spreadTolerance float64
	sink            domain.Sink
	logger          *slog.Logger
}

// NewEvaluator creates an Evaluator operating on the given ledger and book.
func NewEvaluator(l *ledger.Ledger, b *book.Book, spreadTolerance float64, sink domain.Sink, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		ledger:          l,
		book:            b,
		spreadTolerance: spreadTolerance,
		sink:            sink,
		logger:          logger.With(slog.String("component", "evaluator")),
	}
}

// Evaluate scans both sides of the resting book against the current best
// prices. A bid fills when the market ask drops below its price, crediting
// base by amount/price; it cancels when its price falls more than the
// tolerance below the best bid, returning its quote amount. Asks are the
// mirror image. Both comparisons are strict, so an order sitting exactly on
// the tolerance boundary stays resting. Each side is scanned from the most
// recently added order backward so removal during the scan is safe.
func (e *Evaluator) Evaluate(ctx context.Context, best domain.BestPrices) {
	for i := e.book.Len(domain.SideBid) - 1; i >= 0; i-- {
		order := e.book.At(domain.SideBid, i)

		if best.LowestAsk < order.Price {
			bought := domain.Round(order.Amount/order.Price, domain.BasePrecision)
			e.ledger.Credit(domain.AssetBase, bought)
			e.book.RemoveAt(domain.SideBid, i)
			e.report(ctx, domain.EventOrderFilled, order)
			continue
		}

		if order.Price < best.HighestBid*(1-e.spreadTolerance) {
			e.ledger.Credit(domain.AssetQuote, order.Amount)
			e.book.RemoveAt(domain.SideBid, i)
			e.report(ctx, domain.EventOrderCancelled, order)
		}
	}

	for i := e.book.Len(domain.SideAsk) - 1; i >= 0; i-- {
		order := e.book.At(domain.SideAsk, i)

		if best.HighestBid > order.Price {
			proceeds := domain.Round(order.Price*order.Amount, domain.QuotePrecision)
			e.ledger.Credit(domain.AssetQuote, proceeds)
			e.book.RemoveAt(domain.SideAsk, i)
			e.report(ctx, domain.EventOrderFilled, order)
			continue
		}

		if order.Price > best.LowestAsk*(1+e.spreadTolerance) {
			e.ledger.Credit(domain.AssetBase, order.Amount)
			e.book.RemoveAt(domain.SideAsk, i)
			e.report(ctx, domain.EventOrderCancelled, order)
		}
	}
}

func (e *Evaluator) report(ctx context.Context, typ domain.EventType, order domain.RestingOrder) {
	verb := "order filled"
	if typ == domain.EventOrderCancelled {
		verb = "order cancelled"
	}
	e.logger.InfoContext(ctx, verb,
		slog.String("side", string(order.Side)),
		slog.Float64("price", order.Price),
		slog.Float64("amount", order.Amount),
	)

	if e.sink == nil {
		return
	}
	ev := domain.Event{
		Type:   typ,
		Time:   time.Now().UTC(),
		Side:   order.Side,
		Price:  order.Price,
		Amount: order.Amount,
	}
	if err := e.sink.Publish(ctx, ev); err != nil {
		e.logger.WarnContext(ctx, "event publish failed",
			slog.String("event", string(typ)),
			slog.String("error", err.Error()),
		)
	}
}
