package events

import (
	"sync"
)

// CommandEventBus delivers overlay events to the terminal front-end.
// Handlers run asynchronously; WaitForPendingEvents blocks until every
// handler started so far has returned.
type CommandEventBus struct {
	subscribers map[string][]subscriberInfo
	mu          sync.Mutex
	nextID      int
	pending     sync.WaitGroup
}

type subscriberInfo struct {
	id      int
	handler func(any)
	once    bool
}

// NewCommandEventBus creates an empty bus.
func NewCommandEventBus() *CommandEventBus {
	return &CommandEventBus{
		subscribers: make(map[string][]subscriberInfo),
		nextID:      1,
	}
}

// Subscribe registers a handler for eventType and returns its unsubscribe
// function.
func (bus *CommandEventBus) Subscribe(eventType string, handler func(any)) func() {
	return bus.add(eventType, handler, false)
}

// SubscribeOnce registers a handler that is removed after its first event.
func (bus *CommandEventBus) SubscribeOnce(eventType string, handler func(any)) func() {
	return bus.add(eventType, handler, true)
}

func (bus *CommandEventBus) add(eventType string, handler func(any), once bool) func() {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := bus.nextID
	bus.nextID++
	bus.subscribers[eventType] = append(bus.subscribers[eventType], subscriberInfo{
		id:      id,
		handler: handler,
		once:    once,
	})

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		bus.removeSubscriber(eventType, id)
	}
}

// Emit sends event to every subscriber of eventType, each on its own
// goroutine.
func (bus *CommandEventBus) Emit(eventType string, event any) {
	bus.mu.Lock()
	handlers := make([]func(any), 0, len(bus.subscribers[eventType]))
	var onceIDs []int
	for _, sub := range bus.subscribers[eventType] {
		handlers = append(handlers, sub.handler)
		if sub.once {
			onceIDs = append(onceIDs, sub.id)
		}
	}
	// Once handlers leave before the lock is released so a concurrent Emit
	// cannot call them again.
	for _, id := range onceIDs {
		bus.removeSubscriber(eventType, id)
	}
	bus.pending.Add(len(handlers))
	bus.mu.Unlock()

	for _, handler := range handlers {
		go func(h func(any)) {
			defer bus.pending.Done()
			h(event)
		}(handler)
	}
}

// WaitForPendingEvents blocks until all handlers started by Emit return.
func (bus *CommandEventBus) WaitForPendingEvents() {
	bus.pending.Wait()
}

// Clear removes all subscribers.
func (bus *CommandEventBus) Clear() {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	bus.subscribers = make(map[string][]subscriberInfo)
}

// removeSubscriber must be called with the lock held.
func (bus *CommandEventBus) removeSubscriber(eventType string, id int) {
	subscribers := bus.subscribers[eventType]
	for i, sub := range subscribers {
		if sub.id != id {
			continue
		}
		bus.subscribers[eventType] = append(subscribers[:i:i], subscribers[i+1:]...)
		if len(bus.subscribers[eventType]) == 0 {
			delete(bus.subscribers, eventType)
		}
		return
	}
}
