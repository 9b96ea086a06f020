// Package events carries change notifications from mutations to live subscribers.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

// Collections that emit events.
const (
	Orders   = "orders"
	Tables   = "tables"
	Bills    = "bills"
	Bookings = "bookings"
	Menu     = "menu"
	Staff    = "staff"
)

type Event struct {
	Collection string    `json:"collection"`
	Action     Action    `json:"action"`
	BusinessID uuid.UUID `json:"business_id"`
	ID         uuid.UUID `json:"id"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Hub fans events out to in-process subscribers of the same business.
// A subscriber that falls behind loses events rather than blocking publishers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[int]chan Event
	nextID int
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[uuid.UUID]map[int]chan Event),
		buffer: buffer,
	}
}

func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[ev.BusinessID] {
		select {
		case ch <- ev:
		default:
			logrus.WithFields(logrus.Fields{
				"business_id": ev.BusinessID,
				"collection":  ev.Collection,
			}).Warn("dropping event for slow subscriber")
		}
	}
	return nil
}

// Subscribe returns a channel of events for businessID and a func that ends the subscription.
func (h *Hub) Subscribe(businessID uuid.UUID) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.buffer)
	if h.subs[businessID] == nil {
		h.subs[businessID] = make(map[int]chan Event)
	}
	h.subs[businessID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[businessID], id)
			if len(h.subs[businessID]) == 0 {
				delete(h.subs, businessID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

func (h *Hub) Subscribers(businessID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[businessID])
}

// Notify publishes ev and logs instead of returning failures.
func Notify(ctx context.Context, p Publisher, collection string, action Action, businessID, id uuid.UUID) {
	if p == nil {
		return
	}
	ev := Event{
		Collection: collection,
		Action:     action,
		BusinessID: businessID,
		ID:         id,
		At:         time.Now().UTC(),
	}
	if err := p.Publish(ctx, ev); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"collection": collection,
			"action":     action,
			"id":         id,
		}).Warn("failed to publish change event")
	}
}
