// Package events provides in-process pub/sub used to mirror the live
// document-store listeners of the original system. Consumers subscribe
// to a topic and must call Unsubscribe when their view goes away, so
// updates never leak into a stale consumer.
package events

import (
	"sync"
	"time"
)

// Topics published by the store.
const (
	TopicAppointments = "appointments"
	TopicSchedule     = "schedule"
	TopicVouchers     = "vouchers"
)

// Event is a lightweight change notification.
type Event struct {
	Topic      string
	Action     string // created, updated
	DocumentID string
	At         time.Time
}

// Subscription is a live feed of events for one topic. Consumers must
// call Unsubscribe when done; slow consumers drop events rather than
// block publishers.
type Subscription struct {
	Events <-chan Event

	bus   *Bus
	topic string
	ch    chan Event
	once  sync.Once
}

// Unsubscribe tears the subscription down and closes Events.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.remove(s.topic, s.ch)
	})
}

// Bus fans events out to topic subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]chan Event
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]chan Event)}
}

// Subscribe registers a buffered subscription for a topic.
func (b *Bus) Subscribe(topic string) *Subscription {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()
	return &Subscription{Events: ch, bus: b, topic: topic, ch: ch}
}

// Publish notifies subscribers of the event's topic. Publishing never
// blocks; a full subscriber buffer drops the event. Sends happen under
// the bus read lock so they cannot interleave with a channel close in
// remove, which holds the write lock.
func (b *Bus) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[event.Topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

// remove detaches the channel and closes it. Closing under the write
// lock keeps publishers from sending on a closed channel.
func (b *Bus) remove(topic string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channels := b.subs[topic]
	for i, c := range channels {
		if c == ch {
			b.subs[topic] = append(channels[:i], channels[i+1:]...)
			close(ch)
			break
		}
	}
}
