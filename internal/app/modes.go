package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quantsim/makerbot/internal/domain"
)

// flushTimeout bounds the final archive upload during shutdown.
const flushTimeout = 10 * time.Second

// RunMode runs the steady-state scheduler: a cycle loop on the poll interval
// and a balance report loop on the report interval, as two independent ticker
// goroutines under an errgroup. Both feed the same engine, whose internal
// mutex guarantees at most one cycle in flight.
func (a *App) RunMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting run mode",
		slog.Duration("poll_interval", a.cfg.Loop.PollInterval.Duration),
		slog.Duration("report_interval", a.cfg.Loop.ReportInterval.Duration),
	)

	g, ctx := errgroup.WithContext(ctx)

	if deps.WSFeed != nil {
		g.Go(func() error {
			err := deps.WSFeed.Run(ctx)
			if ctx.Err() != nil {
				return nil // clean shutdown
			}
			return fmt.Errorf("ws feed: %w", err)
		})
	}

	// Cycle loop.
	g.Go(func() error {
		a.runCycle(ctx, deps)

		ticker := time.NewTicker(a.cfg.Loop.PollInterval.Duration)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				a.logger.Info("cycle loop stopped")
				return nil
			case <-ticker.C:
				a.runCycle(ctx, deps)
			}
		}
	})

	// Balance report loop.
	g.Go(func() error {
		ticker := time.NewTicker(a.cfg.Loop.ReportInterval.Duration)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				a.logger.Info("report loop stopped")
				return nil
			case <-ticker.C:
				deps.Engine.ReportBalances(ctx)
			}
		}
	})

	err := g.Wait()

	a.flushArchive(deps)

	if err != nil {
		a.logger.Error("run mode stopped with error", slog.String("error", err.Error()))
		return err
	}
	a.logger.Info("run mode stopped cleanly")
	return ctx.Err()
}

// OnceMode executes a single market-making cycle, reports balances, and
// exits. Useful for smoke tests and cron-style invocation.
func (a *App) OnceMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting once mode")

	if err := deps.Engine.RunCycle(ctx); err != nil {
		a.flushArchive(deps)
		return fmt.Errorf("once mode: %w", err)
	}
	deps.Engine.ReportBalances(ctx)

	a.flushArchive(deps)
	return nil
}

// runCycle executes one cycle and reports failures without stopping the
// loop: a failed fetch only skips this tick, the next one retries.
func (a *App) runCycle(ctx context.Context, deps *Dependencies) {
	if ctx.Err() != nil {
		return
	}
	if err := deps.Engine.RunCycle(ctx); err != nil {
		if errors.Is(err, domain.ErrSourceUnavailable) {
			a.logger.WarnContext(ctx, "cycle skipped, snapshot source unavailable",
				slog.String("error", err.Error()),
			)
			return
		}
		a.logger.ErrorContext(ctx, "cycle failed",
			slog.String("error", err.Error()),
		)
	}
}

// flushArchive uploads the buffered session report when archival is enabled.
// It uses its own timeout so a shutdown cannot hang on S3.
func (a *App) flushArchive(deps *Dependencies) {
	if deps.Archiver == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := deps.Archiver.Flush(ctx); err != nil {
		a.logger.Error("session archive flush failed", slog.String("error", err.Error()))
	}
}
