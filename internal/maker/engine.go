package maker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/quantsim/makerbot/internal/book"
	"github.com/quantsim/makerbot/internal/domain"
	"github.com/quantsim/makerbot/internal/ledger"
)

// Config holds the engine parameters.
type Config struct {
	InitialQuote    float64
	InitialBase     float64
	OrdersPerSide   int
	Deviation       float64
	SpreadTolerance float64
	MinBidQuote     float64
	MinAskBase      float64
	FetchTimeout    time.Duration
}

// Engine owns one ledger and one resting order book and runs the
// market-making cycle against a snapshot source: fetch, scan, evaluate
// resting orders, replenish both sides. A mutex serializes cycles and state
// reads, so at most one cycle is ever in flight per instance.
type Engine struct {
	mu sync.Mutex

	ledger    *ledger.Ledger
	book      *book.Book
	source    domain.SnapshotSource
	sink      domain.Sink
	generator *Generator
	evaluator *Evaluator

	ordersPerSide int
	fetchTimeout  time.Duration
	logger        *slog.Logger
}

// NewEngine creates an Engine with a fresh ledger and book from cfg. Separate
// instances share nothing and may run side by side.
func NewEngine(cfg Config, source domain.SnapshotSource, sink domain.Sink, rng domain.Rand, logger *slog.Logger) *Engine {
	l := ledger.New(cfg.InitialQuote, cfg.InitialBase)
	b := book.New()

	return &Engine{
		ledger: l,
		book:   b,
		source: source,
		sink:   sink,
		generator: NewGenerator(l, b, rng, sink, GeneratorConfig{
			Deviation:   cfg.Deviation,
			MinBidQuote: cfg.MinBidQuote,
			MinAskBase:  cfg.MinAskBase,
		}, logger),
		evaluator:     NewEvaluator(l, b, cfg.SpreadTolerance, sink, logger),
		ordersPerSide: cfg.OrdersPerSide,
		fetchTimeout:  cfg.FetchTimeout,
		logger:        logger.With(slog.String("component", "engine")),
	}
}

// RunCycle executes one market-making cycle. A failed snapshot fetch aborts
// the cycle before any internal state is touched and is returned wrapped in
// ErrSourceUnavailable; the caller is expected to log it and let the next
// scheduled cycle retry. Once evaluation begins the cycle runs to completion.
func (e *Engine) RunCycle(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	fetchCtx := ctx
	if e.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, e.fetchTimeout)
		defer cancel()
	}

	snap, err := e.source.Fetch(fetchCtx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	best := book.BestPrices(snap)
	e.logger.InfoContext(ctx, "scanned order book",
		slog.Float64("highest_bid", best.HighestBid),
		slog.Float64("lowest_ask", best.LowestAsk),
		slog.Int("levels", len(snap)),
	)

	e.evaluator.Evaluate(ctx, best)

	if err := e.generator.Generate(ctx, best.HighestBid, domain.SideBid, e.ordersPerSide); err != nil {
		return fmt.Errorf("generate bids: %w", err)
	}
	if err := e.generator.Generate(ctx, best.LowestAsk, domain.SideAsk, e.ordersPerSide); err != nil {
		return fmt.Errorf("generate asks: %w", err)
	}

	e.logger.InfoContext(ctx, "cycle complete",
		slog.Int("total_orders", e.book.Total()),
	)
	e.publish(ctx, domain.Event{
		Type:        domain.EventCycleSummary,
		Time:        time.Now().UTC(),
		HighestBid:  best.HighestBid,
		LowestAsk:   best.LowestAsk,
		TotalOrders: e.book.Total(),
	})

	return nil
}

// Status returns the current balances and open-order count. It takes the
// cycle mutex, so it never observes a half-finished cycle.
func (e *Engine) Status() (quote, base float64, totalOrders int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	quote, base = e.ledger.Balances()
	return quote, base, e.book.Total()
}

// ReportBalances publishes a balance_report event with the current balances.
func (e *Engine) ReportBalances(ctx context.Context) {
	quote, base, total := e.Status()
	e.logger.InfoContext(ctx, "balance report",
		slog.Float64("quote", quote),
		slog.Float64("base", base),
		slog.Int("total_orders", total),
	)
	e.publish(ctx, domain.Event{
		Type:        domain.EventBalanceReport,
		Time:        time.Now().UTC(),
		Quote:       quote,
		Base:        base,
		TotalOrders: total,
	})
}

func (e *Engine) publish(ctx context.Context, ev domain.Event) {
	if e.sink == nil {
		return
	}
	if err := e.sink.Publish(ctx, ev); err != nil {
		e.logger.WarnContext(ctx, "event publish failed",
			slog.String("event", string(ev.Type)),
			slog.String("error", err.Error()),
		)
	}
}
