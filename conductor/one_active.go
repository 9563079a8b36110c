package conductor

import (
	"context"
	"fmt"

	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/screen"
)

// OneActive holds an ordered collection of items of which at most one is
// active. Activating another item only deactivates the previous one; items
// leave the collection when they are closed.
type OneActive struct {
	base
}

var (
	_ core.Screen         = (*OneActive)(nil)
	_ core.Conductor      = (*OneActive)(nil)
	_ core.HaveActiveItem = (*OneActive)(nil)
	_ core.Disposable     = (*OneActive)(nil)
)

// NewOneActive creates an empty, inactive OneActive conductor.
func NewOneActive(name string, optFns ...func(o *Options)) *OneActive {
	c := &OneActive{}
	c.init(c, newOptions(name, optFns), lifecycle{
		activate:   c.onActivate,
		deactivate: c.onDeactivate,
		canClose:   c.canClose,
	})
	return c
}

// Add joins items to the collection without activating them. Items already
// present are left in place.
func (c *OneActive) Add(items ...core.Child) error {
	for _, item := range items {
		if item == nil {
			return fmt.Errorf("%w: <nil>", core.ErrInvalidItem)
		}
	}

	c.lock()
	defer c.unlock()
	if err := c.checkDisposed(); err != nil {
		return err
	}

	for _, item := range items {
		c.ensureMember(item)
	}
	return nil
}

// ActivateItem joins item to the collection if needed and makes it the
// active item. The previously active item is deactivated, not closed.
// A nil item leaves the conductor without an active item.
func (c *OneActive) ActivateItem(ctx context.Context, item core.Child) error {
	c.lock()
	defer c.unlock()
	if err := c.checkDisposed(); err != nil {
		return err
	}

	if active := c.ActiveItem(); item != nil && core.SameItem(item, active) {
		return c.reselect(ctx, active)
	}

	return c.changeActiveItem(ctx, item, false, c.ensureMember, c.remove)
}

// DeactivateItem deactivates item. With close set the close strategy is
// consulted first and a permitted item is closed and removed; closing the
// active item activates its successor.
func (c *OneActive) DeactivateItem(ctx context.Context, item core.Child, close bool) error {
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

	return c.closeItemCore(ctx, item)
}

func (c *OneActive) closeItemCore(ctx context.Context, item core.Child) error {
	if core.SameItem(item, c.ActiveItem()) {
		items := c.Children()
		next := DetermineNextItemToActivate(items, core.IndexOf(items, item))
		if err := c.changeActiveItem(ctx, next, true, c.ensureMember, c.remove); err != nil {
			return err
		}
	} else if err := screen.TryDeactivate(ctx, item, true); err != nil {
		return err
	}

	c.remove(item)
	return nil
}

func (c *OneActive) onActivate(ctx context.Context) error {
	return screen.TryActivate(ctx, c.ActiveItem())
}

func (c *OneActive) onDeactivate(ctx context.Context, close bool) error {
	if !close {
		return screen.TryDeactivate(ctx, c.ActiveItem(), false)
	}

	items := c.Children()
	for _, item := range items {
		if err := screen.TryDeactivate(ctx, item, true); err != nil {
			return err
		}
	}

	c.setActive(nil)
	c.remove(items...)
	return nil
}

// canClose closes what it can even when the conductor as a whole may not
// close. A closable active item hands over to the nearest item that stays.
func (c *OneActive) canClose(ctx context.Context) (bool, error) {
	items := c.Children()

	result, err := c.evaluate(ctx, items)
	if err != nil {
		return false, err
	}
	if result.CloseCanOccur || len(result.Closable) == 0 {
		return result.CloseCanOccur, nil
	}

	closable := result.Closable
	if active := c.ActiveItem(); core.Contains(closable, active) {
		// The list shrinks on every step, so the walk ends.
		list := items
		next := active
		for {
			previous := next
			next = DetermineNextItemToActivate(list, core.IndexOf(list, previous))
			list = core.Without(list, previous)
			if !core.Contains(closable, next) {
				break
			}
		}

		if err := c.changeActiveItem(ctx, next, true, c.ensureMember, c.remove); err != nil {
			return false, err
		}
		closable = core.Without(closable, active)
	}

	for _, item := range closable {
		if err := screen.TryDeactivate(ctx, item, true); err != nil {
			return false, err
		}
	}
	c.remove(closable...)

	return false, nil
}
