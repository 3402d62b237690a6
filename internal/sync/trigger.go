package sync

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// TriggerLoop is the Trigger Loop (C7): it owns the periodic timer and
// the filesystem watcher, and exposes a manual trigger. Every source
// converges on the Orchestrator's single-flight guard via RunCycle — the
// loop itself performs no sync work.
type TriggerLoop struct {
	orchestrator *Orchestrator
	watcher      *Watcher
	interval     time.Duration
	logger       *slog.Logger

	requests chan struct{}
}

// NewTriggerLoop creates a TriggerLoop. watcher may be nil to disable
// filesystem-driven triggers; the loop then runs on the timer and manual
// requests only.
func NewTriggerLoop(orchestrator *Orchestrator, watcher *Watcher, interval time.Duration, logger *slog.Logger) *TriggerLoop {
	if logger == nil {
		logger = slog.Default()
	}

	return &TriggerLoop{
		orchestrator: orchestrator,
		watcher:      watcher,
		interval:     interval,
		logger:       logger,
		requests:     make(chan struct{}, 1),
	}
}

// TriggerManual posts an immediate cycle request. Non-blocking: if a
// request is already pending, this is a no-op.
func (t *TriggerLoop) TriggerManual() {
	select {
	case t.requests <- struct{}{}:
	default:
	}
}

// Run drives the timer, the watcher (if any), and the request consumer
// until ctx is cancelled. Each request source only posts to the shared
// channel; the consumer goroutine is the only one that calls RunCycle,
// which keeps cycles from racing even though requests arrive
// concurrently.
func (t *TriggerLoop) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t.runTimer(gctx)
		return nil
	})

	if t.watcher != nil {
		g.Go(func() error {
			if err := t.watcher.Run(gctx, t.requests); err != nil {
				t.logger.Warn("trigger loop: watcher exited", "error", err)
			}

			return nil
		})
	}

	g.Go(func() error {
		t.runConsumer(gctx)
		return nil
	})

	return g.Wait()
}

func (t *TriggerLoop) runTimer(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case t.requests <- struct{}{}:
			default:
			}
		}
	}
}

func (t *TriggerLoop) runConsumer(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.requests:
			if err := t.orchestrator.RunCycle(ctx); err != nil {
				t.logger.Debug("trigger loop: cycle ended with error", "error", err)
			}
		}
	}
}
