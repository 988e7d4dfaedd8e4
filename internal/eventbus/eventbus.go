// Package eventbus is a small in-process event dispatcher. Instrumentation
// subscribes to typed events; producing code publishes without knowing who
// listens.
package eventbus

import (
	"context"
	"reflect"
	"sync"
)

// Handler processes events of type T.
type Handler[T any] func(context.Context, T)

// Bus dispatches events to handlers registered for their dynamic type.
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]any
}

// New creates an empty Bus.
func New() *Bus { return &Bus{handlers: make(map[reflect.Type][]any)} }

func (b *Bus) subscribe(t reflect.Type, h any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

func (b *Bus) publish(ctx context.Context, e any) {
	if b == nil {
		return
	}
	t := reflect.TypeOf(e)
	b.mu.RLock()
	hs := append([]any(nil), b.handlers[t]...)
	b.mu.RUnlock()
	for _, h := range hs {
		h.(func(context.Context, any))(ctx, e)
	}
}

// SubscribeTo registers a handler for events of type T on the bus.
func SubscribeTo[T any](b *Bus, h Handler[T]) {
	var zero T
	wrapped := func(ctx context.Context, e any) { h(ctx, e.(T)) }
	b.subscribe(reflect.TypeOf(zero), wrapped)
}

// PublishTo dispatches an event on the bus. A nil bus drops the event.
func PublishTo[T any](b *Bus, ctx context.Context, e T) { b.publish(ctx, e) }

var (
	defaultMu  sync.RWMutex
	defaultBus *Bus
)

// Use installs the process-wide default bus.
func Use(b *Bus) {
	defaultMu.Lock()
	defaultBus = b
	defaultMu.Unlock()
}

func current() *Bus {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultBus
}

// Subscribe registers a handler on the default bus. No-op when no bus is
// installed.
func Subscribe[T any](h Handler[T]) {
	if b := current(); b != nil {
		SubscribeTo(b, h)
	}
}

// Publish dispatches an event on the default bus. No-op when no bus is
// installed.
func Publish[T any](ctx context.Context, e T) {
	PublishTo(current(), ctx, e)
}
