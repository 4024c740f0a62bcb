package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"projectchart-service/internal/domain"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Syncer refreshes the stored history of one (ticker, range).
type Syncer interface {
	SyncHistory(ctx context.Context, ticker string, r domain.TimeRange) (int, error)
}

// Locker guards a sync key across worker replicas.
type Locker interface {
	TryLock(ctx context.Context, key string) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// Summary reports one pass over every configured (ticker, range).
type Summary struct {
	Synced  int
	Skipped int
	Failed  int
	Records int
}

// SyncWorker periodically replaces stored history with a fresh fetch for
// every configured ticker and time range.
type SyncWorker struct {
	Syncer   Syncer
	Lock     Locker
	Tickers  []string
	Ranges   []domain.TimeRange
	Schedule string
	// per (ticker, range) sync timeout
	Timeout time.Duration
	Log     *zap.Logger

	mu sync.Mutex
}

func (w *SyncWorker) logger() *zap.Logger {
	if w.Log == nil {
		return zap.NewNop()
	}
	return w.Log
}

// Start runs the schedule until ctx is cancelled, then waits for a running
// pass to finish.
func (w *SyncWorker) Start(ctx context.Context) error {
	log := w.logger()
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(w.Schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("register sync schedule %q: %w", w.Schedule, err)
	}
	c.Start()
	log.Info("sync_worker_started",
		zap.String("schedule", w.Schedule),
		zap.Strings("tickers", w.Tickers),
	)

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("sync_worker_stopped")
	return nil
}

// RunOnce syncs every (ticker, range) once. Overlapping passes are skipped.
func (w *SyncWorker) RunOnce(ctx context.Context) Summary {
	log := w.logger()
	if !w.mu.TryLock() {
		log.Warn("sync_pass_skipped", zap.String("reason", "previous pass still running"))
		return Summary{}
	}
	defer w.mu.Unlock()

	ranges := w.Ranges
	if len(ranges) == 0 {
		ranges = domain.TimeRanges
	}
	var sum Summary
	start := time.Now()
	for _, ticker := range w.Tickers {
		for _, r := range ranges {
			if ctx.Err() != nil {
				return sum
			}
			n, ok, err := w.syncOne(ctx, ticker, r)
			switch {
			case err != nil:
				sum.Failed++
				log.Warn("sync_failed", zap.String("ticker", ticker), zap.String("range", string(r)), zap.Error(err))
			case !ok:
				sum.Skipped++
			default:
				sum.Synced++
				sum.Records += n
			}
		}
	}
	log.Info("sync_pass_done",
		zap.Int("synced", sum.Synced),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed),
		zap.Int("records", sum.Records),
		zap.Duration("took", time.Since(start)),
	)
	return sum
}

func (w *SyncWorker) syncOne(ctx context.Context, ticker string, r domain.TimeRange) (n int, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	key := ticker + ":" + string(r)
	if w.Lock != nil {
		got, err := w.Lock.TryLock(ctx, key)
		if err != nil {
			return 0, false, fmt.Errorf("lock %s: %w", key, err)
		}
		if !got {
			return 0, false, nil
		}
		defer func() { _ = w.Lock.Unlock(context.WithoutCancel(ctx), key) }()
	}

	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}
	n, err = w.Syncer.SyncHistory(ctx, ticker, r)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}
