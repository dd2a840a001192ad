package utilities

import (
	"log"
	"sync"
)

type EventHandler func(interface{})

// EventBus decouples domain services from side listeners (audit trail).
type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(event string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[event] = append(eb.handlers[event], handler)
}

// Publish runs handlers asynchronously. A panicking handler is contained
// so it cannot take down the serving goroutine.
func (eb *EventBus) Publish(event string, data interface{}) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, handler := range eb.handlers[event] {
		h := handler
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("event handler panic on %q: %v", event, r)
				}
			}()
			h(data)
		}()
	}
}

// Global instance
var GlobalEventBus = NewEventBus()
