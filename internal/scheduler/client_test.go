package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadtrack_backend/platform/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(&config.Config{}); err == nil {
		t.Fatal("NewClient with empty REDIS_URL must fail")
	}
}

func TestEnqueueRetentionSweepUnique(t *testing.T) {
	srv := miniredis.RunT(t)

	cfg := &config.Config{
		RedisURL:       "redis://" + srv.Addr(),
		AsynqQueueName: "leads",
	}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.EnqueueRetentionSweep(ctx, time.Minute); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}

	// The uniqueness window fences out a second dispatcher.
	err = client.EnqueueRetentionSweep(ctx, time.Minute)
	if !errors.Is(err, asynq.ErrDuplicateTask) {
		t.Fatalf("second enqueue: got %v, want ErrDuplicateTask", err)
	}
}
