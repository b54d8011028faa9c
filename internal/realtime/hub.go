package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSlowSubscriber = errors.New("subscriber fell behind and was dropped")
	ErrHubClosed      = errors.New("realtime hub closed")
)

const defaultBuffer = 64

// Hub fans row changes out to subscriptions. Each subscription sees events in
// arrival order; there is no ordering across tables.
type Hub struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]*Subscription
	buffer int
	closed bool
	log    *zap.Logger
}

func NewHub(buffer int, log *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{subs: make(map[uuid.UUID]*Subscription), buffer: buffer, log: log}
}

// Subscription is owned by the caller and must be closed.
type Subscription struct {
	id     uuid.UUID
	filter Filter
	events chan Event
	hub    *Hub
	err    error
}

func (s *Subscription) ID() uuid.UUID { return s.id }

// Events is closed when the subscription ends; Err then tells why.
func (s *Subscription) Events() <-chan Event { return s.events }

func (s *Subscription) Err() error {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	return s.err
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription) Close() error {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.hub.drop(s, nil)
	return nil
}

func (h *Hub) Subscribe(filter Filter) (*Subscription, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}

	sub := &Subscription{
		id:     uuid.New(),
		filter: filter,
		events: make(chan Event, h.buffer),
		hub:    h,
	}
	h.subs[sub.id] = sub
	return sub, nil
}

// Publish never blocks. A subscription whose buffer is full is dropped.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		if !sub.filter.Match(ev) {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			h.log.Warn("dropping slow realtime subscriber",
				zap.String("subscription", sub.id.String()),
				zap.String("table", sub.filter.Table))
			h.drop(sub, ErrSlowSubscriber)
		}
	}
}

// Close ends every subscription with ErrHubClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, sub := range h.subs {
		h.drop(sub, ErrHubClosed)
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// drop must be called with h.mu held.
func (h *Hub) drop(sub *Subscription, reason error) {
	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	sub.err = reason
	close(sub.events)
}

// Watch subscribes, hands every event to fn and always releases the
// subscription. It returns when ctx is done, fn fails or the hub drops it.
func (h *Hub) Watch(ctx context.Context, filter Filter, fn func(Event) error) error {
	sub, err := h.Subscribe(filter)
	if err != nil {
		return err
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.Events():
			if !ok {
				return sub.Err()
			}
			if err := fn(ev); err != nil {
				return err
			}
		}
	}
}
