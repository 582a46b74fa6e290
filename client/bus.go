package client

import "sync"

// Event names broadcast after confirmed mutations. Components that do not
// share a data dependency subscribe to these instead of polling each other.
const (
	EventPostCreated   = "post:created"
	EventPostDeleted   = "post:deleted"
	EventFollowChanged = "follow:changed"
)

type Event struct {
	Name    string
	Payload interface{}
}

// Bus is a process-wide publish/subscribe hub, the in-process counterpart
// of the browser-global events the web app dispatches.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func(Event)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]func(Event))}
}

// Subscribe registers a handler for an event name and returns an
// unsubscribe function.
func (b *Bus) Subscribe(name string, fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[name] == nil {
		b.subs[name] = make(map[int]func(Event))
	}
	id := b.nextID
	b.nextID++
	b.subs[name][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[name], id)
	}
}

// Publish delivers the event to current subscribers synchronously.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]func(Event), 0, len(b.subs[e.Name]))
	for _, fn := range b.subs[e.Name] {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(e)
	}
}
