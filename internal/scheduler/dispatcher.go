package scheduler

import (
	"context"
	"time"

	"leadtrack_backend/platform/logger"
)

// SweepDispatcher triggers retention sweeps on a fixed cadence. With a client
// it enqueues unique asynq tasks for the worker fleet; without one it runs the
// sweeper in-process, which is only safe for single-instance deployments.
type SweepDispatcher struct {
	client   *Client
	sweeper  *Sweeper
	interval time.Duration
	log      *logger.Logger
}

func NewSweepDispatcher(client *Client, sweeper *Sweeper, interval time.Duration, log *logger.Logger) *SweepDispatcher {
	return &SweepDispatcher{
		client:   client,
		sweeper:  sweeper,
		interval: interval,
		log:      log,
	}
}

// Run fires one sweep immediately and then on every tick until ctx is done.
func (d *SweepDispatcher) Run(ctx context.Context) {
	d.dispatch(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.dispatch(ctx)
		}
	}
}

func (d *SweepDispatcher) dispatch(ctx context.Context) {
	if d.client != nil {
		// Unique for half the cadence so a stuck task never blocks the
		// next window.
		if err := d.client.EnqueueRetentionSweep(ctx, d.interval/2); err != nil {
			d.log.Warn("retention sweep enqueue failed", "error", err)
		}
		return
	}

	if _, err := d.sweeper.Sweep(ctx); err != nil {
		d.log.Warn("retention sweep failed", "error", err)
	}
}
