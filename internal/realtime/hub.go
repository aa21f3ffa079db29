package realtime

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Notification channel event names.
const (
	// EventTaskChanged tells subscribers some task changed; re-fetch.
	EventTaskChanged = "task_changed"

	// EventLogUpdated tells subscribers new audit entries exist; re-fetch.
	EventLogUpdated = "log_updated"

	// EventTaskCommentAdded carries the new comment inline. It is the one
	// payload-bearing exception to the re-fetch-only model.
	EventTaskCommentAdded = "task_comment_added"
)

// Event is one fan-out notification.
type Event struct {
	Name    string
	Payload interface{}
}

// Signal builds a content-free re-fetch event.
func Signal(name string) Event {
	return Event{Name: name, Payload: map[string]interface{}{}}
}

// Publisher is what mutation code needs from the hub.
type Publisher interface {
	Publish(event Event)
}

// Subscriber receives events over a buffered channel. A subscriber that
// falls behind loses events rather than blocking the publisher; it is
// expected to reconcile by re-fetching after reconnect.
type Subscriber struct {
	ch chan Event
}

// Events returns the subscriber's receive channel. It is closed when the
// subscriber is removed or the hub shuts down.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

const subscriberBuffer = 32

// Hub fans change notifications out to currently connected subscribers.
// It is an explicitly constructed handle with a defined lifecycle, passed
// to whoever publishes; there is no ambient singleton to look up.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscriber]struct{}
	closed bool
	log    *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		subs: make(map[*Subscriber]struct{}),
		log:  log,
	}
}

var _ Publisher = (*Hub)(nil)

// Subscribe registers a new subscriber. On a closed hub it returns a
// subscriber whose channel is already closed.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}

// Publish delivers an event to every connected subscriber without
// blocking. Sends to a full subscriber buffer are dropped; publishing on
// a closed hub is logged and otherwise ignored, so a teardown race can
// never fail the mutation that triggered the notification.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		if h.log != nil {
			h.log.WithField("event", event.Name).Warn("publish on closed hub dropped")
		}
		return
	}

	for sub := range h.subs {
		select {
		case sub.ch <- event:
		default:
			if h.log != nil {
				h.log.WithField("event", event.Name).Warn("slow subscriber, event dropped")
			}
		}
	}
}

// SubscriberCount reports how many subscribers are connected.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close tears the hub down, closing every subscriber channel. Publishing
// after Close is safe and does nothing.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.ch)
	}
}
