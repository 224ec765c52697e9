// Package events fans out change notifications to SSE subscribers.
package events

import (
	"sync"
	"time"
)

const subscriberBuffer = 16

// Hub broadcasts encoded events. The latest bootstrap events are kept so
// a page opened mid-bootstrap starts from the current progress.
type Hub struct {
	mu      sync.Mutex
	seq     uint64
	clients map[chan string]struct{}
	last    map[string]string
	dropped uint64

	Now func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[chan string]struct{}),
		last:    make(map[string]string),
		Now:     time.Now,
	}
}

// Subscribe returns a channel already holding the sticky events seen so far.
func (h *Hub) Subscribe() chan string {
	ch := make(chan string, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range stickyTypes {
		if evt, ok := h.last[t]; ok {
			ch <- evt
		}
	}
	h.clients[ch] = struct{}{}
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	_, ok := h.clients[ch]
	delete(h.clients, ch)
	h.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Notify publishes a typed envelope without request context.
func (h *Hub) Notify(typ string, data any) {
	h.NotifyRequest("", typ, data)
}

// NotifyRequest never blocks: a subscriber whose buffer is full misses
// the event.
func (h *Hub) NotifyRequest(reqID, typ string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	evt := encode(reqID, typ, h.seq, h.Now(), data)
	if sticky(typ) {
		h.last[typ] = evt
	}
	for ch := range h.clients {
		select {
		case ch <- evt:
		default:
			h.dropped++
		}
	}
}

// Ping is the greeting a new stream gets. It is not broadcast and does
// not advance the sequence.
func (h *Hub) Ping(reqID string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return encode(reqID, TypePing, h.seq, h.Now(), nil)
}

// Seq is the number of the latest published event. Pages render it so the
// browser can skip replays of what it already shows.
func (h *Hub) Seq() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped counts deliveries skipped because a subscriber was full.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}
