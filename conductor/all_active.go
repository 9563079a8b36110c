package conductor

import (
	"context"
	"fmt"

	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/screen"
	"golang.org/x/sync/errgroup"
)

// AllActive holds an ordered collection whose members are all active while
// the conductor is active.
type AllActive struct {
	base
	openItems []core.Child
}

var (
	_ core.Screen     = (*AllActive)(nil)
	_ core.Conductor  = (*AllActive)(nil)
	_ core.Disposable = (*AllActive)(nil)
)

// NewAllActive creates an empty, inactive AllActive conductor. Items passed
// with WithOpenItems join the collection when the conductor initializes.
func NewAllActive(name string, optFns ...func(o *Options)) *AllActive {
	opts := newOptions(name, optFns)
	c := &AllActive{openItems: opts.OpenItems}
	c.init(c, opts, lifecycle{
		initialize: c.onInitialize,
		activate:   c.onActivate,
		deactivate: c.onDeactivate,
		canClose:   c.canClose,
	})
	return c
}

// ActivateItem joins item to the collection and activates it if the
// conductor is active. Nil items are ignored.
func (c *AllActive) ActivateItem(ctx context.Context, item core.Child) error {
	if item == nil {
		return nil
	}

	c.lock()
	defer c.unlock()
	if err := c.checkDisposed(); err != nil {
		return err
	}

	return c.activateItem(ctx, item)
}

func (c *AllActive) activateItem(ctx context.Context, item core.Child) error {
	item = c.ensureMember(item)
	if c.isRunning() {
		if err := screen.TryActivate(ctx, item); err != nil {
			return err
		}
	}
	c.emitProcessed(item, true)
	return nil
}

// DeactivateItem deactivates item. With close set the close strategy is
// consulted first and a permitted item is closed and removed.
func (c *AllActive) DeactivateItem(ctx context.Context, item core.Child, close bool) error {
	if item == nil {
		return nil
	}

	c.lock()
	defer c.unlock()
	if err := c.checkDisposed(); err != nil {
		return err
	}

	item = c.tracked(item)
	if !close {
		return screen.TryDeactivate(ctx, item, false)
	}

	result, err := c.evaluate(ctx, []core.Child{item})
	if err != nil {
		return err
	}
	if !result.CloseCanOccur {
		return nil
	}

	if err := screen.TryDeactivate(ctx, item, true); err != nil {
		return err
	}
	c.remove(item)
	return nil
}

func (c *AllActive) onInitialize(ctx context.Context) error {
	for _, item := range c.openItems {
		if item == nil {
			return fmt.Errorf("open items of %q: %w: <nil>", c.DisplayName(), core.ErrInvalidItem)
		}
		if err := c.activateItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// onActivate activates all members concurrently and waits for every one.
func (c *AllActive) onActivate(ctx context.Context) error {
	var g errgroup.Group
	for _, item := range c.Children() {
		g.Go(func() error { return screen.TryActivate(ctx, item) })
	}
	return g.Wait()
}

func (c *AllActive) onDeactivate(ctx context.Context, close bool) error {
	items := c.Children()
	for _, item := range items {
		if err := screen.TryDeactivate(ctx, item, close); err != nil {
			return err
		}
	}
	if close {
		c.remove(items...)
	}
	return nil
}

// canClose closes and removes the permitted members even when the
// conductor as a whole may not close.
func (c *AllActive) canClose(ctx context.Context) (bool, error) {
	result, err := c.evaluate(ctx, c.Children())
	if err != nil {
		return false, err
	}
	if result.CloseCanOccur || len(result.Closable) == 0 {
		return result.CloseCanOccur, nil
	}

	for _, item := range result.Closable {
		if err := screen.TryDeactivate(ctx, item, true); err != nil {
			return false, err
		}
	}
	c.remove(result.Closable...)
	return false, nil
}
