package eventbus

import (
	"context"
	"errors"
	"reflect"
	"sync"
)

// Handler receives a published event.
type Handler func(ctx context.Context, event any) error

// Bus delivers analysis events to in-process subscribers.
type Bus interface {
	Publish(ctx context.Context, event any) error
	Subscribe(eventType string, handler Handler)
}

var (
	ErrNilEvent = errors.New("eventbus: nil event")
	// ErrUnexpectedEvent is returned by typed handlers receiving another event type.
	ErrUnexpectedEvent = errors.New("eventbus: unexpected event type")
)

// InMemoryBus runs handlers synchronously in subscription order.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string][]Handler)}
}

// Publish calls every handler of the event's type. All handlers run even when one
// fails; their errors are joined.
func (b *InMemoryBus) Publish(ctx context.Context, event any) error {
	if event == nil {
		return ErrNilEvent
	}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[TypeName(event)]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *InMemoryBus) Subscribe(eventType string, handler Handler) {
	if eventType == "" || handler == nil {
		return
	}
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
}

// On subscribes a handler typed on the event struct.
func On[T any](bus Bus, handler func(ctx context.Context, event T) error) {
	if bus == nil || handler == nil {
		return
	}
	bus.Subscribe(TypeOf[T](), func(ctx context.Context, event any) error {
		switch evt := event.(type) {
		case T:
			return handler(ctx, evt)
		case *T:
			return handler(ctx, *evt)
		default:
			return ErrUnexpectedEvent
		}
	})
}

// TypeName returns the type name of an event value, pointers dereferenced.
func TypeName(event any) string {
	t := reflect.TypeOf(event)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.String()
}

// TypeOf returns the type name of T.
func TypeOf[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
