package core

import "context"

// Activatable is implemented by anything that can be activated and
// deactivated by a conductor.
//
// Implementations must be idempotent: activating an already active instance
// does not change state, deactivating an inactive one is a no-op unless it is
// being closed after initialization.
type Activatable interface {
	IsActive() bool
	Activate(ctx context.Context) error
	Deactivate(ctx context.Context, close bool) error

	// OnActivated registers a handler fired after activation completes.
	OnActivated(h Handler[ActivationEventArgs]) (unsubscribe func())
	// OnAttemptingDeactivation registers a handler fired before deactivation.
	// Handlers observe, they cannot veto.
	OnAttemptingDeactivation(h Handler[DeactivationEventArgs]) (unsubscribe func())
	// OnDeactivated registers an async handler. Deactivate does not return
	// until every registered handler has completed.
	OnDeactivated(h AsyncHandler[DeactivationEventArgs]) (unsubscribe func())
}

// Reactivator is implemented by activatables that support re-running their
// activate hook while already active (reselection by a conductor).
type Reactivator interface {
	Reactivate(ctx context.Context) error
}

// GuardClose is implemented by items that may veto being closed.
type GuardClose interface {
	CanClose(ctx context.Context) (bool, error)
}

// Closeable is implemented by items that can request their own closing.
// dialogResult is passed through to the platform close action and may be nil.
type Closeable interface {
	TryClose(ctx context.Context, dialogResult *bool) error
}

// Child is a node in a parent/child hierarchy. The parent reference is a
// navigation handle only; the parent owns the child, never the reverse.
type Child interface {
	Parent() Parent
	SetParent(p Parent)
}

// Parent is an object associated with an ordered collection of children.
type Parent interface {
	Children() []Child
}

// Identifiable items are compared by ID instead of by value. Types embedding
// a screen inherit its ID, so the embedding value and the embedded screen
// are treated as the same item.
type Identifiable interface {
	ID() string
}

// Conductor manages the lifecycle of its children.
type Conductor interface {
	Parent
	ActivateItem(ctx context.Context, item Child) error
	DeactivateItem(ctx context.Context, item Child, close bool) error
	OnActivationProcessed(h Handler[ActivationProcessedEventArgs]) (unsubscribe func())
}

// HaveActiveItem is implemented by conductors that maintain an active item.
type HaveActiveItem interface {
	ActiveItem() Child
}

// Disposable items release subscriptions and owned resources.
type Disposable interface {
	Dispose()
}

// Screen is the full capability set of a lifecycle managed unit of work.
type Screen interface {
	Child
	Activatable
	GuardClose
	Closeable
	Identifiable
	DisplayName() string
	IsInitialized() bool
}
