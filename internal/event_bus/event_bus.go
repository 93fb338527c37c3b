package event_bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType is an identifier for events.
type EventType string

// Event is the generic envelope used by the bus.
type Event struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      any
}

// NewEvent creates a new Event with the given context, type, and data.
func NewEvent(ctx context.Context, eventType EventType, data any) Event {
	return Event{
		ctx:       ctx,
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Context returns the context the event was published with.
func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// EventT is a typed envelope used by typed handlers.
type EventT[T any] struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      T
}

func (e EventT[T]) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

type subscriber struct {
	id uint64
	h  func(Event) error
}

// EventBus is a concurrency-safe synchronous event dispatcher. Handlers run
// sequentially, in subscription order, inside Publish.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]subscriber
	nextID      uint64
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]subscriber),
	}
}

// Subscribe registers h for eventType and returns a function removing it.
func (eb *EventBus) Subscribe(eventType EventType, h func(Event) error) (unsubscribe func()) {
	eb.mu.Lock()
	eb.nextID++
	id := eb.nextID
	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber{id: id, h: h})
	eb.mu.Unlock()

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()

		subs := eb.subscribers[eventType]
		for i, s := range subs {
			if s.id == id {
				eb.subscribers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(eb.subscribers[eventType]) == 0 {
			delete(eb.subscribers, eventType)
		}
	}
}

// SubscribeTyped registers a handler for payloads of type T. Events whose
// payload is not a T are skipped.
//
//	unsub := event_bus.SubscribeTyped(bus, event_bus.DebtRepaidEvent,
//	    func(e event_bus.EventT[event_bus.DebtRepaid]) error {
//	        log.Infof("debt %d repaid", e.Data.DebtId)
//	        return nil
//	    })
func SubscribeTyped[T any](eb *EventBus, eventType EventType, h func(EventT[T]) error) (unsubscribe func()) {
	wrapper := func(e Event) error {
		payload, ok := e.Data.(T)
		if !ok {
			log.Debugf("EventBus: type mismatch for event %s: expected %T, got %T", eventType, *new(T), e.Data)
			return nil
		}
		return h(EventT[T]{
			ctx:       e.ctx,
			Type:      e.Type,
			Timestamp: e.Timestamp,
			Data:      payload,
		})
	}
	return eb.Subscribe(eventType, wrapper)
}

// Publish delivers e to every handler of e.Type. Handler errors and panics
// are collected; delivery continues unless the event's context is done.
func (eb *EventBus) Publish(e Event) error {
	if err := e.Context().Err(); err != nil {
		return fmt.Errorf("event %s: context cancelled before publish: %w", e.Type, err)
	}

	eb.mu.RLock()
	subs := append([]subscriber(nil), eb.subscribers[e.Type]...)
	eb.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := e.Context().Err(); err != nil {
			errs = append(errs, fmt.Errorf("context cancelled during event processing: %w", err))
			break
		}

		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("handler panic (ID %d) for event %s: %v", s.id, e.Type, r)
				}
			}()
			return s.h(e)
		}()

		if err != nil {
			log.Errorf("EventBus: handler error (ID %d) for event %s: %v", s.id, e.Type, err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("event %s: %d handler(s) failed: %v", e.Type, len(errs), errs)
	}
	return nil
}
