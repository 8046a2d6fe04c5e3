package assistant

import (
	"sync"
	"time"
)

// ConversationEvent describes a successful conversation write. Subscribers
// (UI sync, cross-window broadcast in the original product) receive one event
// per committed update.
type ConversationEvent struct {
	ConversationID string
	TenantID       string
	UserID         string
	CurrentAgent   string
	Active         bool
	UpdatedAt      time.Time
}

// Notifier is the explicit publish point for conversation state changes:
// the service notifies after every successful conversation write instead of
// exposing ambient mutable state.
type Notifier struct {
	mu   sync.RWMutex
	subs map[int]func(ConversationEvent)
	next int
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(ConversationEvent))}
}

// Subscribe registers fn and returns a cancel function. fn is called
// synchronously on the writing goroutine; subscribers must not block.
func (n *Notifier) Subscribe(fn func(ConversationEvent)) (cancel func()) {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *Notifier) notify(ev ConversationEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, fn := range n.subs {
		fn(ev)
	}
}
