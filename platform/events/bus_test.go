package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncOrderAndError(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var calls []int
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		calls = append(calls, 1)
		return nil
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		calls = append(calls, 2)
		return errors.New("second handler failed")
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		calls = append(calls, 3)
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "test.event"})
	if err == nil {
		t.Fatal("PublishSync must return the first handler error")
	}
	if len(calls) != 2 {
		t.Errorf("handlers called = %v, want stop after the failing handler", calls)
	}
}

func TestPublishReachesAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
			wg.Done()
			return nil
		}))
	}

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "test.event"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handlers not invoked within timeout")
	}
}

func TestPublishUnknownEventIsNoop(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "nobody.listens"})
	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "nobody.listens"}); err != nil {
		t.Errorf("PublishSync with no handlers: %v", err)
	}
}
