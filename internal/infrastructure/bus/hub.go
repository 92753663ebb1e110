// Package bus fans committed change events out to connected subscribers.
// Delivery is fire and forget: no persistence, no redelivery, and a slow
// subscriber is skipped rather than allowed to block the publisher.
package bus

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"netcontrol/internal/domain/record"
	"netcontrol/internal/ports"
)

var (
	publishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netcontrol_bus_events_published_total",
		Help: "Change events published on the notification bus, by type.",
	}, []string{"type"})

	droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netcontrol_bus_events_dropped_total",
		Help: "Change events dropped because a subscriber channel was full.",
	})
)

// Bus is the subscribe side layered over the Notifier publish contract.
type Bus interface {
	ports.Notifier
	Subscribe(buffer int) *Subscription
}

// Hub is the in-process Bus. Subscribers are independent; each gets its own
// buffered channel and per-subscriber FIFO ordering. Nothing is ordered
// across subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

var _ Bus = (*Hub)(nil)

func (h *Hub) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 64
	}
	s := &Subscription{
		hub:   h,
		ch:    make(chan record.ChangeEvent, buffer),
		rooms: make(map[string]struct{}),
	}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	return s
}

// Publish delivers the event to every subscriber interested in its room.
// An empty room broadcasts. Full subscriber channels are skipped.
func (h *Hub) Publish(ctx context.Context, event record.ChangeEvent) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if event.Type == "" {
		return errors.New("event type is required")
	}

	publishedTotal.WithLabelValues(event.Type).Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		if event.Room != "" && !s.inRoom(event.Room) {
			continue
		}
		if !s.deliver(event) {
			droppedTotal.Inc()
		}
	}
	return nil
}

// SubscriberCount reports how many subscriptions are attached.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}

// Subscription is one connected consumer. Closing it never affects other
// subscribers or in-flight publishes.
type Subscription struct {
	hub *Hub
	ch  chan record.ChangeEvent

	mu     sync.Mutex
	rooms  map[string]struct{}
	closed bool
}

// Events is the subscriber's delivery channel. It is closed by Close.
func (s *Subscription) Events() <-chan record.ChangeEvent {
	return s.ch
}

// Join adds the subscription to a named room.
func (s *Subscription) Join(room string) {
	if room == "" {
		return
	}
	s.mu.Lock()
	s.rooms[room] = struct{}{}
	s.mu.Unlock()
}

// Leave removes the subscription from a named room.
func (s *Subscription) Leave(room string) {
	s.mu.Lock()
	delete(s.rooms, room)
	s.mu.Unlock()
}

// Close detaches from the hub and closes the delivery channel. Safe to call
// concurrently with publishes; the hub lock serializes removal against
// in-flight deliveries.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.hub.remove(s)
	close(s.ch)
}

func (s *Subscription) inRoom(room string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rooms[room]
	return ok
}

func (s *Subscription) deliver(event record.ChangeEvent) bool {
	select {
	case s.ch <- event:
		return true
	default:
		return false
	}
}
