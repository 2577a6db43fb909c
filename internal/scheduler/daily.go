// Package scheduler triggers reconciliation at the daily boundary.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"clinic-shifts/internal/clock"
)

// boundaryOffset keeps the run clear of the exact midnight tick, when the
// source sheet is often still being edited for the new day.
const boundaryOffset = 5 * time.Minute

// SyncFunc is the reconciliation entry point the scheduler drives.
type SyncFunc func(ctx context.Context) error

// Daily runs one full sync shortly after each local midnight. Overlapping
// triggers are safe: the reconciliation engine single-flights its entry
// points.
type Daily struct {
	run SyncFunc
	clk clock.Clock
	log *zap.Logger
}

func NewDaily(run SyncFunc, clk clock.Clock, log *zap.Logger) *Daily {
	return &Daily{run: run, clk: clk, log: log}
}

// NextBoundary returns the next daily trigger instant after now.
func NextBoundary(now time.Time) time.Time {
	todays := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		Add(boundaryOffset)
	if now.Before(todays) {
		return todays
	}
	return todays.Add(24 * time.Hour)
}

// Run blocks until ctx is cancelled, firing the sync at each boundary.
func (d *Daily) Run(ctx context.Context) {
	for {
		now := d.clk.Now()
		wait := NextBoundary(now).Sub(now)
		d.log.Info("next scheduled sync", zap.Duration("in", wait))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := d.run(ctx); err != nil {
			d.log.Error("scheduled sync failed", zap.Error(err))
		}
	}
}
