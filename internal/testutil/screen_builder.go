package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/screen"
)

// ScreenBuilder provides a fluent helper for constructing screens whose hooks
// and events are recorded into a Journal. Example:
//
//	s := NewScreenBuilder("A").Journal(j).VetoClose().Build()
//
// Entries use the form "<name>:<call>": initialize, activate,
// deactivate, deactivate(close), can_close, Activated, Activated(init),
// AttemptingDeactivation, Deactivated, Deactivated(close).
type ScreenBuilder struct {
	name          string
	journal       *Journal
	vetoClose     bool
	initErr       error
	activateErr   error
	deactivateErr error
	gate          <-chan struct{}
	events        bool
}

// NewScreenBuilder creates a builder for a screen named name.
func NewScreenBuilder(name string) *ScreenBuilder { return &ScreenBuilder{name: name, events: true} }

// Journal sets the journal receiving entries (chainable).
func (b *ScreenBuilder) Journal(j *Journal) *ScreenBuilder { b.journal = j; return b }

// VetoClose makes CanClose return false (chainable).
func (b *ScreenBuilder) VetoClose() *ScreenBuilder { b.vetoClose = true; return b }

// FailInitialize makes the initialize hook return err (chainable).
func (b *ScreenBuilder) FailInitialize(err error) *ScreenBuilder { b.initErr = err; return b }

// FailActivate makes the activate hook return err (chainable).
func (b *ScreenBuilder) FailActivate(err error) *ScreenBuilder { b.activateErr = err; return b }

// FailDeactivate makes the deactivate hook return err (chainable).
func (b *ScreenBuilder) FailDeactivate(err error) *ScreenBuilder { b.deactivateErr = err; return b }

// GateActivate blocks the activate hook until gate is closed or the context
// is cancelled (chainable).
func (b *ScreenBuilder) GateActivate(gate <-chan struct{}) *ScreenBuilder { b.gate = gate; return b }

// WithoutEvents disables recording of event handlers (chainable).
func (b *ScreenBuilder) WithoutEvents() *ScreenBuilder { b.events = false; return b }

// Build constructs the screen.
func (b *ScreenBuilder) Build() *screen.Screen {
	j := b.journal
	if j == nil {
		j = NewJournal()
	}
	name := b.name

	s := screen.New(name,
		screen.WithInitializeHook(func(context.Context) error {
			j.Record("%s:initialize", name)
			return b.initErr
		}),
		screen.WithActivateHook(func(ctx context.Context) error {
			j.Record("%s:activate", name)
			if b.gate != nil {
				select {
				case <-b.gate:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return b.activateErr
		}),
		screen.WithDeactivateHook(func(_ context.Context, close bool) error {
			if close {
				j.Record("%s:deactivate(close)", name)
			} else {
				j.Record("%s:deactivate", name)
			}
			return b.deactivateErr
		}),
		screen.WithCanCloseHook(func(context.Context) (bool, error) {
			j.Record("%s:can_close", name)
			return !b.vetoClose, nil
		}),
	)

	if b.events {
		RecordEvents(j, name, s)
	}
	return s
}

// RecordEvents subscribes to the lifecycle events of a and records them.
func RecordEvents(j *Journal, name string, a core.Activatable) {
	a.OnActivated(func(_ any, e core.ActivationEventArgs) {
		if e.WasInitialized {
			j.Record("%s:Activated(init)", name)
		} else {
			j.Record("%s:Activated", name)
		}
	})
	a.OnAttemptingDeactivation(func(any, core.DeactivationEventArgs) {
		j.Record("%s:AttemptingDeactivation", name)
	})
	a.OnDeactivated(func(_ context.Context, _ any, e core.DeactivationEventArgs) error {
		if e.WasClosed {
			j.Record("%s:Deactivated(close)", name)
		} else {
			j.Record("%s:Deactivated", name)
		}
		return nil
	})
}

// ProcessedRecorder collects ActivationProcessed notifications.
type ProcessedRecorder struct {
	mu     sync.Mutex
	events []core.ActivationProcessedEventArgs
}

// Handler returns the handler to pass to OnActivationProcessed.
func (r *ProcessedRecorder) Handler() core.Handler[core.ActivationProcessedEventArgs] {
	return func(_ any, e core.ActivationProcessedEventArgs) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
	}
}

// Events returns a copy of the recorded notifications.
func (r *ProcessedRecorder) Events() []core.ActivationProcessedEventArgs {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.ActivationProcessedEventArgs, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the most recent notification and whether one exists.
func (r *ProcessedRecorder) Last() (core.ActivationProcessedEventArgs, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return core.ActivationProcessedEventArgs{}, false
	}
	return r.events[len(r.events)-1], true
}
