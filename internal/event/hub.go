package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/innledger/internal/ledger"
)

type Topic string

const (
	TopicLedgerPosted     Topic = "ledger.posted"
	TopicPaymentSettled   Topic = "payment.settled"
	TopicHallBookingAdded Topic = "order.hall_booking_added"
)

func (t Topic) Valid() bool {
	switch t {
	case TopicLedgerPosted, TopicPaymentSettled, TopicHallBookingAdded:
		return true
	default:
		return false
	}
}

type Event struct {
	Type    Topic           `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

const subscriberBuffer = 256

type subscriber struct {
	topic Topic
	ch    chan Event
}

// Hub fans events out to the subscribers of each topic. Subscribers that cannot keep
// up are dropped and their channel closed.
type Hub struct {
	rooms map[Topic]map[*subscriber]struct{}

	register   chan *subscriber
	unregister chan *subscriber
	broadcast  chan Event
	done       chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[Topic]map[*subscriber]struct{}),
		register:   make(chan *subscriber),
		unregister: make(chan *subscriber),
		broadcast:  make(chan Event, subscriberBuffer),
		done:       make(chan struct{}),
	}
}

// Run dispatches events until ctx is cancelled, then closes every subscriber channel.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case sub := <-h.register:
			h.mu.Lock()
			if h.rooms[sub.topic] == nil {
				h.rooms[sub.topic] = make(map[*subscriber]struct{})
			}
			h.rooms[sub.topic][sub] = struct{}{}
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			h.remove(sub)
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for sub := range h.rooms[ev.Type] {
				select {
				case sub.ch <- ev:
				default:
					slog.Warn("dropping slow event subscriber", "topic", ev.Type)
					h.remove(sub)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(sub *subscriber) {
	subs, ok := h.rooms[sub.topic]
	if !ok {
		return
	}

	if _, exists := subs[sub]; !exists {
		return
	}

	delete(subs, sub)
	close(sub.ch)

	if len(subs) == 0 {
		delete(h.rooms, sub.topic)
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, subs := range h.rooms {
		for sub := range subs {
			close(sub.ch)
		}
	}

	h.rooms = make(map[Topic]map[*subscriber]struct{})
	close(h.done)
}

// Subscribe returns a channel of events on topic and a function that cancels the
// subscription. The channel is closed when the subscription ends. Once the hub has
// stopped the returned channel is already closed.
func (h *Hub) Subscribe(topic Topic) (<-chan Event, func()) {
	sub := &subscriber{topic: topic, ch: make(chan Event, subscriberBuffer)}

	select {
	case h.register <- sub:
	case <-h.done:
		close(sub.ch)
		return sub.ch, func() {}
	}

	var once sync.Once

	return sub.ch, func() {
		once.Do(func() {
			select {
			case h.unregister <- sub:
			case <-h.done:
			}
		})
	}
}

// Publish queues payload on topic. It never blocks: when the queue is full the
// event is dropped and logged.
func (h *Hub) Publish(topic Topic, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode event", "topic", topic, "error", err)
		return
	}

	select {
	case h.broadcast <- Event{Type: topic, Payload: raw}:
	default:
		slog.Warn("event queue full, dropping event", "topic", topic)
	}
}

// EntryPosted is the payload of TopicLedgerPosted.
type EntryPosted struct {
	EntryID      uuid.UUID         `json:"entry_id"`
	EntryDate    string            `json:"entry_date"`
	CategoryCode string            `json:"category_code"`
	Amount       decimal.Decimal   `json:"amount"`
	SourceType   ledger.SourceType `json:"source_type"`
	SourceID     string            `json:"source_id"`
	Reference    string            `json:"reference_number"`
}

// PublishPosted announces a newly created ledger entry.
func (h *Hub) PublishPosted(entry *ledger.Entry) {
	h.Publish(TopicLedgerPosted, EntryPosted{
		EntryID:      entry.ID,
		EntryDate:    entry.EntryDate.Format(time.DateOnly),
		CategoryCode: entry.CategoryCode,
		Amount:       entry.Amount,
		SourceType:   entry.SourceType,
		SourceID:     entry.SourceID,
		Reference:    entry.ReferenceNumber,
	})
}

// Subscribers reports how many subscribers are listening on topic.
func (h *Hub) Subscribers(topic Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[topic])
}
