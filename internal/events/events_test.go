package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeReceivesTopicEvents(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicAppointments)
	defer sub.Unsubscribe()

	bus.Publish(Event{Topic: TopicAppointments, Action: "created", DocumentID: "a1"})
	bus.Publish(Event{Topic: TopicSchedule, Action: "updated"})

	select {
	case ev := <-sub.Events:
		assert.Equal(t, "created", ev.Action)
		assert.Equal(t, "a1", ev.DocumentID)
		assert.False(t, ev.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected an appointment event")
	}

	select {
	case ev, ok := <-sub.Events:
		if ok {
			t.Fatalf("unexpected cross-topic event: %+v", ev)
		}
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicVouchers)

	sub.Unsubscribe()
	// Idempotent.
	sub.Unsubscribe()

	// Must not panic on a removed subscriber.
	bus.Publish(Event{Topic: TopicVouchers, Action: "updated"})

	_, ok := <-sub.Events
	assert.False(t, ok, "channel should be closed after Unsubscribe")
}

// Publishes racing concurrent unsubscribes must never send on a closed
// channel; run with -race.
func TestPublishRacingUnsubscribe(t *testing.T) {
	bus := NewBus()

	subs := make([]*Subscription, 50)
	for i := range subs {
		subs[i] = bus.Subscribe(TopicAppointments)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				bus.Publish(Event{Topic: TopicAppointments, Action: "created"})
			}
		}
	}()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	close(stop)
	wg.Wait()

	// Every channel must drain to a close, never hang.
	for _, sub := range subs {
		for range sub.Events {
		}
	}
}

func TestPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicAppointments)
	defer sub.Unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			bus.Publish(Event{Topic: TopicAppointments, Action: "created"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
