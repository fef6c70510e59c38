package realtime

import "sync"

// Topic names a class of state that observers may need to re-read.
type Topic string

const (
	TopicBalance  Topic = "balance"
	TopicDeposits Topic = "deposits"
	TopicOrders   Topic = "orders"
	TopicTickets  Topic = "tickets"
)

// Event is an invalidation signal: "this topic changed for this account,
// re-read it". It never carries deltas; receivers re-fetch and replace,
// which keeps at-least-once delivery idempotent.
type Event struct {
	Topic  Topic `json:"topic"`
	UserID uint  `json:"userId,omitempty"`
}

// Subscription is one observer's feed of invalidation events.
type Subscription struct {
	C     <-chan Event
	ch    chan Event
	close func()
}

// Close detaches the subscription from the hub.
func (s *Subscription) Close() {
	s.close()
}

type subscriber struct {
	userID uint
	admin  bool
	ch     chan Event
}

// Hub fans invalidation events out to subscribers. Account-scoped
// subscribers see only their own events; admin-scoped subscribers see all.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// hub is the process-wide instance used by the controllers.
var hub = NewHub()

// Subscribe registers an observer scoped to userID, or to everything
// when admin is true.
func Subscribe(userID uint, admin bool) *Subscription {
	return hub.Subscribe(userID, admin)
}

// Publish signals that topic changed for userID.
func Publish(topic Topic, userID uint) {
	hub.Publish(topic, userID)
}

func (h *Hub) Subscribe(userID uint, admin bool) *Subscription {
	sub := &subscriber{
		userID: userID,
		admin:  admin,
		ch:     make(chan Event, 16),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return &Subscription{
		C:  sub.ch,
		ch: sub.ch,
		close: func() {
			h.mu.Lock()
			delete(h.subs, sub)
			h.mu.Unlock()
		},
	}
}

// Publish is best-effort: a subscriber whose buffer is full is skipped
// rather than blocking the mutation that triggered the event. A skipped
// signal is recovered by the next event or the client's own re-read.
func (h *Hub) Publish(topic Topic, userID uint) {
	ev := Event{Topic: topic, UserID: userID}

	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		if !sub.admin && sub.userID != userID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}
