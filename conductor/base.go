package conductor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/screen"
)

// lifecycle holds the conductor specific parts of the embedded screen's
// hooks. They are invoked with the operation lock held.
type lifecycle struct {
	initialize screen.Hook
	activate   screen.Hook
	deactivate screen.DeactivateHook
	canClose   screen.CanCloseHook
}

// base bundles what every conductor shares: the embedded screen, the close
// strategy, the item collection and the ActivationProcessed event.
type base struct {
	*screen.Screen

	self     core.Conductor // outer conductor, assigned as the parent of children
	strategy core.CloseStrategy

	opMu    sync.Mutex // serializes item operations and hooks
	pending []core.ActivationProcessedEventArgs

	stateMu sync.RWMutex // protects the fields below
	items   []core.Child
	active  core.Child
	running bool // children are conducted as active

	processed core.Event[core.ActivationProcessedEventArgs]
	disposed  atomic.Bool
}

func (b *base) init(self core.Conductor, opts Options, lc lifecycle) {
	b.self = self
	b.strategy = opts.CloseStrategy

	sender := opts.Sender
	if sender == nil {
		sender = self
	}

	b.Screen = screen.New(opts.DisplayName,
		screen.WithSender(sender),
		screen.WithLogger(opts.Logger),
		screen.WithPlatform(opts.Platform),
		screen.WithInitializeHook(func(ctx context.Context) error {
			if opts.OnInitialize != nil {
				if err := opts.OnInitialize(ctx); err != nil {
					return err
				}
			}
			if lc.initialize == nil {
				return nil
			}
			b.lock()
			defer b.unlock()
			if err := b.checkDisposed(); err != nil {
				return err
			}
			return lc.initialize(ctx)
		}),
		screen.WithActivateHook(func(ctx context.Context) error {
			if opts.OnActivate != nil {
				if err := opts.OnActivate(ctx); err != nil {
					return err
				}
			}
			b.lock()
			defer b.unlock()
			if err := b.checkDisposed(); err != nil {
				return err
			}
			if err := lc.activate(ctx); err != nil {
				return err
			}
			b.setRunning(true)
			return nil
		}),
		screen.WithDeactivateHook(func(ctx context.Context, close bool) error {
			if opts.OnDeactivate != nil {
				if err := opts.OnDeactivate(ctx, close); err != nil {
					return err
				}
			}
			b.lock()
			defer b.unlock()
			if err := lc.deactivate(ctx, close); err != nil {
				return err
			}
			b.setRunning(false)
			return nil
		}),
		screen.WithCanCloseHook(func(ctx context.Context) (bool, error) {
			b.lock()
			defer b.unlock()
			if err := b.checkDisposed(); err != nil {
				return false, err
			}
			return lc.canClose(ctx)
		}),
	)
}

// lock acquires the operation lock.
func (b *base) lock() { b.opMu.Lock() }

// unlock releases the operation lock and then delivers the
// ActivationProcessed notifications queued while it was held.
func (b *base) unlock() {
	pending := b.pending
	b.pending = nil
	b.opMu.Unlock()

	for _, e := range pending {
		b.processed.Emit(b.Sender(), e)
	}
}

func (b *base) checkDisposed() error {
	if b.disposed.Load() {
		return fmt.Errorf("%q: %w", b.DisplayName(), core.ErrDisposed)
	}
	return nil
}

// OnActivationProcessed implements core.Conductor.
func (b *base) OnActivationProcessed(h core.Handler[core.ActivationProcessedEventArgs]) func() {
	return b.processed.Subscribe(h)
}

// emitProcessed queues an ActivationProcessed notification. Nil items are
// never reported. Callers hold the operation lock.
func (b *base) emitProcessed(item core.Child, success bool) {
	if item == nil {
		return
	}
	b.pending = append(b.pending, core.ActivationProcessedEventArgs{Item: item, Success: success})
}

// CloseStrategy returns the strategy deciding which children may close.
func (b *base) CloseStrategy() core.CloseStrategy { return b.strategy }

// Children returns a snapshot of the conducted items in order.
func (b *base) Children() []core.Child {
	b.stateMu.RLock()
	defer b.stateMu.RUnlock()
	out := make([]core.Child, len(b.items))
	copy(out, b.items)
	return out
}

// ActiveItem returns the active item, or nil.
func (b *base) ActiveItem() core.Child {
	b.stateMu.RLock()
	defer b.stateMu.RUnlock()
	return b.active
}

func (b *base) setActive(item core.Child) {
	b.stateMu.Lock()
	changed := !sameOrNil(b.active, item)
	b.active = item
	b.stateMu.Unlock()

	if changed {
		b.NotifyOfPropertyChange(PropActiveItem)
	}
}

func (b *base) isRunning() bool {
	b.stateMu.RLock()
	defer b.stateMu.RUnlock()
	return b.running
}

func (b *base) setRunning(running bool) {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	b.running = running
}

// tracked resolves item to the instance held in the collection, or returns
// item itself when it is not a member.
func (b *base) tracked(item core.Child) core.Child {
	b.stateMu.RLock()
	defer b.stateMu.RUnlock()
	if i := core.IndexOf(b.items, item); i >= 0 {
		return b.items[i]
	}
	return item
}

// attach points item's parent at this conductor. It is the single place
// where the back-reference is assigned.
func (b *base) attach(item core.Child) core.Child {
	if item.Parent() != core.Parent(b.self) {
		item.SetParent(b.self)
	}
	return item
}

// detach clears the parent of every item that still points at this conductor.
func (b *base) detach(items ...core.Child) {
	for _, item := range items {
		if item != nil && item.Parent() == core.Parent(b.self) {
			item.SetParent(nil)
		}
	}
}

// ensureMember appends item to the collection unless an equal item is
// already present, and returns the tracked instance.
func (b *base) ensureMember(item core.Child) core.Child {
	b.stateMu.Lock()
	if i := core.IndexOf(b.items, item); i >= 0 {
		item = b.items[i]
	} else {
		b.items = append(b.items, item)
	}
	b.stateMu.Unlock()

	return b.attach(item)
}

// remove drops items from the collection and detaches them.
func (b *base) remove(items ...core.Child) {
	b.stateMu.Lock()
	var removed []core.Child
	kept := make([]core.Child, 0, len(b.items))
	for _, c := range b.items {
		if core.Contains(items, c) {
			removed = append(removed, c)
		} else {
			kept = append(kept, c)
		}
	}
	b.items = kept
	b.stateMu.Unlock()

	b.detach(removed...)
}

// evaluate runs the close strategy over a snapshot of candidates.
func (b *base) evaluate(ctx context.Context, candidates []core.Child) (core.CloseResult, error) {
	snapshot := make([]core.Child, len(candidates))
	copy(snapshot, candidates)

	result, err := b.strategy.Execute(ctx, snapshot)
	if err != nil {
		return core.CloseResult{}, &core.LifecycleError{Op: core.OpCanClose, Screen: b.DisplayName(), Err: err}
	}

	type closeDecisionLogger interface {
		LogCloseDecision(conductor string, candidates, closable int, closeCanOccur bool)
	}
	if l, ok := b.Logger().(closeDecisionLogger); ok {
		l.LogCloseDecision(b.DisplayName(), len(snapshot), len(result.Closable), result.CloseCanOccur)
	} else {
		b.Logger().Debug("Close decision", "conductor", b.DisplayName(),
			"candidates", len(snapshot), "closable", len(result.Closable), "can_close", result.CloseCanOccur)
	}

	return result, nil
}

// reselect handles an activation request for the item that is already
// active: the item is reactivated while children are conducted as active.
func (b *base) reselect(ctx context.Context, item core.Child) error {
	if !b.isRunning() {
		return nil
	}
	if err := screen.TryReactivate(ctx, item); err != nil {
		return err
	}
	b.emitProcessed(item, true)
	return nil
}

// changeActiveItem swaps the active item. The previous item is deactivated,
// closed when closePrevious is set, before the new one is activated; a
// closed previous item is released from the conductor afterwards. ensure
// prepares the new item, release drops the closed one. When the new item
// fails to activate the active slot is cleared and a closed previous item is
// still released.
func (b *base) changeActiveItem(ctx context.Context, newItem core.Child, closePrevious bool,
	ensure func(core.Child) core.Child, release func(...core.Child)) error {
	old := b.ActiveItem()
	if err := screen.TryDeactivate(ctx, old, closePrevious); err != nil {
		return err
	}

	if newItem != nil {
		newItem = ensure(newItem)
	}
	b.setActive(newItem)

	replaced := old != nil && !core.SameItem(old, newItem)

	if b.isRunning() && newItem != nil {
		if err := screen.TryActivate(ctx, newItem); err != nil {
			b.setActive(nil)
			if replaced && closePrevious {
				release(old)
			}
			b.detachUnheld(old, newItem)
			return err
		}
	}

	if replaced {
		// Repeat the deactivation so an old item that was re-entered while the
		// new one activated ends up in the requested state.
		if err := screen.TryDeactivate(ctx, old, closePrevious); err != nil {
			return err
		}
		if closePrevious {
			release(old)
		}
		b.detachUnheld(old)
	}

	b.emitProcessed(newItem, true)
	return nil
}

// detachUnheld detaches the items that are no longer among the conductor's
// children.
func (b *base) detachUnheld(items ...core.Child) {
	children := b.self.Children()
	for _, item := range items {
		if item != nil && !core.Contains(children, item) {
			b.detach(item)
		}
	}
}

// Dispose releases the conductor's own subscriptions, then disposes every
// child that supports it and detaches all children. Later operations fail
// with core.ErrDisposed.
func (b *base) Dispose() {
	if b.disposed.Swap(true) {
		return
	}

	b.processed.Clear()
	b.ReleaseSubscriptions()

	b.lock()
	defer b.unlock()

	children := b.self.Children()

	b.stateMu.Lock()
	b.items = nil
	b.active = nil
	b.running = false
	b.stateMu.Unlock()

	for _, c := range children {
		if d, ok := c.(core.Disposable); ok {
			d.Dispose()
		}
		b.detach(c)
	}

	b.Logger().Debug("Disposed", "conductor", b.DisplayName(), "children", len(children))
}

// nonNil filters nil items.
func nonNil(items ...core.Child) []core.Child {
	out := make([]core.Child, 0, len(items))
	for _, c := range items {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func sameOrNil(a, b core.Child) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return core.SameItem(a, b)
}
