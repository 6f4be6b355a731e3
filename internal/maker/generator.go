// Package maker implements the market-making core: randomized order
// generation, fill/cancel evaluation of resting orders, and the cycle engine
// that ties them to a snapshot source.
package maker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quantsim/makerbot/internal/book"
	"github.com/quantsim/makerbot/internal/domain"
	"github.com/quantsim/makerbot/internal/ledger"
)

// GeneratorConfig holds the order-sizing parameters.
type GeneratorConfig struct {
	// Deviation is the half-width of the price band as a fraction of the
	// target price.
	Deviation float64
	// MinBidQuote is the minimum tradable bid amount in quote currency.
	MinBidQuote float64
	// MinAskBase is the minimum tradable ask amount in base asset.
	MinAskBase float64
}

// Generator produces randomized resting orders funded by the ledger. Every
// generated order debits the ledger and is appended to the book.
type Generator struct {
	ledger *ledger.Ledger
	book   *book.Book
	rng    domain.Rand
	sink   domain.Sink
	cfg    GeneratorConfig
	logger *slog.Logger
}

// NewGenerator creates a Generator operating on the given ledger and book.
func NewGenerator(l *ledger.Ledger, b *book.Book, rng domain.Rand, sink domain.Sink, cfg GeneratorConfig, logger *slog.Logger) *Generator {
	return &Generator{
		ledger: l,
		book:   b,
		rng:    rng,
		sink:   sink,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "generator")),
	}
}

func (g *Generator) minAmount(side domain.Side) float64 {
	if side == domain.SideBid {
		return g.cfg.MinBidQuote
	}
	return g.cfg.MinAskBase
}

// Generate places up to count orders on the given side, each priced uniformly
// at random within the deviation band around targetPrice and sized from the
// ledger's remaining balance. It returns ErrInvalidCount for count <= 0
// without touching any state. When the balance cannot fund another order the
// remaining iterations are skipped, a capacity_exceeded event is emitted, and
// the orders already placed in this call remain.
//
// Each iteration sizes its order as an equal share of the balance left at
// that point, balance/count, so shares shrink as the loop consumes funds.
func (g *Generator) Generate(ctx context.Context, targetPrice float64, side domain.Side, count int) error {
	if count <= 0 {
		return domain.ErrInvalidCount
	}

	deviation := targetPrice * g.cfg.Deviation
	minPrice := targetPrice - deviation
	maxPrice := targetPrice + deviation

	asset := side.Asset()
	minAmount := g.minAmount(side)
	precision := asset.Precision()

	for i := 0; i < count; i++ {
		maxAmount := g.ledger.Balance(asset) / float64(count)
		if g.ledger.Balance(asset) <= 0 || maxAmount < minAmount {
			g.logger.WarnContext(ctx, "not enough balance to place order",
				slog.String("asset", string(asset)),
				slog.String("side", string(side)),
				slog.Int("placed", i),
				slog.Int("requested", count),
			)
			g.publish(ctx, domain.Event{
				Type:  domain.EventCapacityExceeded,
				Time:  time.Now().UTC(),
				Side:  side,
				Asset: asset,
			})
			return nil
		}

		// Uniform draw written as high + r*(low-high) so an inverted range
		// still resolves to a value between the two bounds.
		amount := domain.Round(maxAmount+g.rng.Float64()*(minAmount-maxAmount), precision)
		g.ledger.Debit(asset, amount)

		price := domain.Round(maxPrice+g.rng.Float64()*(minPrice-maxPrice), domain.QuotePrecision)

		order := domain.RestingOrder{
			ID:       uuid.NewString(),
			Side:     side,
			Price:    price,
			Amount:   amount,
			PlacedAt: time.Now().UTC(),
		}
		g.book.Append(order)

		g.logger.InfoContext(ctx, "order placed",
			slog.String("side", string(side)),
			slog.Float64("price", price),
			slog.Float64("amount", amount),
		)
		g.publish(ctx, domain.Event{
			Type:   domain.EventOrderPlaced,
			Time:   order.PlacedAt,
			Side:   side,
			Price:  price,
			Amount: amount,
		})
	}

	return nil
}

func (g *Generator) publish(ctx context.Context, ev domain.Event) {
	if g.sink == nil {
		return
	}
	if err := g.sink.Publish(ctx, ev); err != nil {
		g.logger.WarnContext(ctx, "event publish failed",
			slog.String("event", string(ev.Type)),
			slog.String("error", err.Error()),
		)
	}
}
