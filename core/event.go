package core

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ActivationEventArgs is the payload of the Activated event.
type ActivationEventArgs struct {
	// WasInitialized reports whether this activation also initialized the screen.
	WasInitialized bool
}

// DeactivationEventArgs is the payload of the AttemptingDeactivation and
// Deactivated events.
type DeactivationEventArgs struct {
	// WasClosed reports whether the screen is being closed.
	WasClosed bool
}

// ActivationProcessedEventArgs reports the outcome of a conductor activation
// request. Success is false when the close strategy refused to release the
// previously active item.
type ActivationProcessedEventArgs struct {
	Item    Child
	Success bool
}

// PropertyChangedEventArgs names an observable property whose value changed.
type PropertyChangedEventArgs struct {
	PropertyName string
}

// Handler is a synchronous event handler.
type Handler[T any] func(sender any, args T)

// AsyncHandler is an event handler that may block; the emitter waits for it.
type AsyncHandler[T any] func(ctx context.Context, sender any, args T) error

type entry[H any] struct {
	id uint64
	h  H
}

// Event is a multicast list of synchronous handlers. The zero value is ready
// to use. Handlers are invoked in registration order on a snapshot, so a
// handler may unsubscribe itself while being invoked.
type Event[T any] struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers []entry[Handler[T]]
}

// Subscribe registers h and returns a function removing it again.
func (e *Event[T]) Subscribe(h Handler[T]) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.handlers = append(e.handlers, entry[Handler[T]]{id: id, h: h})

	return func() { e.remove(id) }
}

func (e *Event[T]) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, en := range e.handlers {
		if en.id == id {
			e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
			return
		}
	}
}

// Emit invokes every registered handler.
func (e *Event[T]) Emit(sender any, args T) {
	e.mu.RLock()
	snapshot := make([]entry[Handler[T]], len(e.handlers))
	copy(snapshot, e.handlers)
	e.mu.RUnlock()

	for _, en := range snapshot {
		en.h(sender, args)
	}
}

// Len returns the number of registered handlers.
func (e *Event[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers)
}

// Clear removes all handlers.
func (e *Event[T]) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = nil
}

// AsyncEvent is a multicast list of async handlers. Invoke runs all handlers
// concurrently and returns once every one of them has completed.
type AsyncEvent[T any] struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers []entry[AsyncHandler[T]]
}

// Subscribe registers h and returns a function removing it again.
func (e *AsyncEvent[T]) Subscribe(h AsyncHandler[T]) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.handlers = append(e.handlers, entry[AsyncHandler[T]]{id: id, h: h})

	return func() { e.remove(id) }
}

func (e *AsyncEvent[T]) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, en := range e.handlers {
		if en.id == id {
			e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
			return
		}
	}
}

// Invoke fans out to every handler and waits for all of them. The first
// non-nil handler error is returned after all handlers finished.
func (e *AsyncEvent[T]) Invoke(ctx context.Context, sender any, args T) error {
	e.mu.RLock()
	snapshot := make([]entry[AsyncHandler[T]], len(e.handlers))
	copy(snapshot, e.handlers)
	e.mu.RUnlock()

	if len(snapshot) == 0 {
		return nil
	}

	var g errgroup.Group
	for _, en := range snapshot {
		h := en.h
		g.Go(func() error { return h(ctx, sender, args) })
	}

	return g.Wait()
}

// Len returns the number of registered handlers.
func (e *AsyncEvent[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers)
}

// Clear removes all handlers.
func (e *AsyncEvent[T]) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = nil
}
