package events

import (
	"fmt"
	"sync"

	console "crmadmin/internal/utils/logger"
)

var log = console.New("EVENTS")

// Mutation describes one entity change flowing through the bus. The audit-log
// subscriber persists these.
type Mutation struct {
	Entity   string
	EntityID int64
	Action   string
	ActorID  *int64
	Payload  interface{}
}

type Handler func(Mutation)

type Bus struct {
	handlers map[string][]Handler
	mu       sync.RWMutex
}

var defaultBus = NewBus()

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

// On registers a handler. The empty topic subscribes to every mutation.
func (b *Bus) On(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Emit delivers the mutation to topic subscribers and wildcard subscribers.
// Handlers run in their own goroutine; a panicking handler is contained.
func (b *Bus) Emit(topic string, m Mutation) {
	b.mu.RLock()
	handlers := append([]Handler{}, b.handlers[topic]...)
	handlers = append(handlers, b.handlers[""]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					_ = log.Error("panic in event handler", fmt.Errorf("topic %s: %v", topic, r))
				}
			}()
			h(m)
		}(handler)
	}
}

// On registers a handler on the default bus.
func On(topic string, handler Handler) {
	defaultBus.On(topic, handler)
}

// Emit publishes on the default bus.
func Emit(topic string, m Mutation) {
	defaultBus.Emit(topic, m)
}
