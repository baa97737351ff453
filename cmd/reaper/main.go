// The reaper runs the retention sweep for soft-deleted leads as an asynq
// worker fleet: a dispatcher enqueues one unique sweep task per cadence
// window, and workers execute it. Run any number of replicas; uniqueness
// guarantees a single execution per window.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadtrack_backend/internal/events"
	"leadtrack_backend/internal/leads/repository"
	"leadtrack_backend/internal/leads/service"
	"leadtrack_backend/internal/scheduler"
	"leadtrack_backend/platform/config"
	"leadtrack_backend/platform/db"
	"leadtrack_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting reaper", "env", cfg.Env, "sweep_interval", cfg.GetSweepInterval().String())

	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required for the reaper; without Redis the API process sweeps in-process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := repository.New(pool)

	// Purges are audited through the same event path as the API process.
	eventBus := events.NewInMemoryBus(log)
	service.NewActivityRecorder(repo).Register(eventBus)

	sweeper := scheduler.NewSweeper(repo, eventBus, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer client.Close()

	worker, err := scheduler.NewWorker(cfg, sweeper, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	dispatcher := scheduler.NewSweepDispatcher(client, sweeper, cfg.GetSweepInterval(), log)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		worker.Run(groupCtx)
		return nil
	})
	group.Go(func() error {
		dispatcher.Run(groupCtx)
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error("reaper stopped", "error", err)
		return
	}
	log.Info("reaper shut down")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", lastErr)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return lastErr
}
