package conductor

import (
	"context"

	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/screen"
)

// Conductor holds at most one item at a time. Switching to another item
// closes the previous one, subject to the close strategy.
type Conductor struct {
	base
}

var (
	_ core.Screen         = (*Conductor)(nil)
	_ core.Conductor      = (*Conductor)(nil)
	_ core.HaveActiveItem = (*Conductor)(nil)
	_ core.Disposable     = (*Conductor)(nil)
)

// New creates an inactive Conductor without an active item.
func New(name string, optFns ...func(o *Options)) *Conductor {
	c := &Conductor{}
	c.init(c, newOptions(name, optFns), lifecycle{
		activate:   c.onActivate,
		deactivate: c.onDeactivate,
		canClose:   c.canClose,
	})
	return c
}

// Children returns the active item, or nothing.
func (c *Conductor) Children() []core.Child {
	if active := c.ActiveItem(); active != nil {
		return []core.Child{active}
	}
	return nil
}

// ActivateItem makes item the active item. Requesting the active item again
// reactivates it. Otherwise the current item must be allowed to close; if it
// is not, ActivationProcessed reports the request as unsuccessful. A nil item
// closes the current one.
func (c *Conductor) ActivateItem(ctx context.Context, item core.Child) error {
	c.lock()
	defer c.unlock()
	if err := c.checkDisposed(); err != nil {
		return err
	}

	active := c.ActiveItem()
	if item != nil && core.SameItem(item, active) {
		return c.reselect(ctx, active)
	}

	result, err := c.evaluate(ctx, nonNil(active))
	if err != nil {
		return err
	}
	if !result.CloseCanOccur {
		c.emitProcessed(item, false)
		return nil
	}

	return c.changeActiveItem(ctx, item, true, c.attach, c.detach)
}

// DeactivateItem deactivates, or closes, the active item if the close
// strategy permits. Requests for any other item are ignored.
func (c *Conductor) DeactivateItem(ctx context.Context, item core.Child, close bool) error {
	c.lock()
	defer c.unlock()
	if err := c.checkDisposed(); err != nil {
		return err
	}

	active := c.ActiveItem()
	if item == nil || !core.SameItem(item, active) {
		return nil
	}

	result, err := c.evaluate(ctx, []core.Child{active})
	if err != nil {
		return err
	}
	if !result.CloseCanOccur {
		return nil
	}

	return c.changeActiveItem(ctx, nil, close, c.attach, c.detach)
}

func (c *Conductor) onActivate(ctx context.Context) error {
	return screen.TryActivate(ctx, c.ActiveItem())
}

func (c *Conductor) onDeactivate(ctx context.Context, close bool) error {
	active := c.ActiveItem()
	if err := screen.TryDeactivate(ctx, active, close); err != nil {
		return err
	}
	if close && active != nil {
		c.setActive(nil)
		c.detach(active)
	}
	return nil
}

func (c *Conductor) canClose(ctx context.Context) (bool, error) {
	result, err := c.evaluate(ctx, nonNil(c.ActiveItem()))
	if err != nil {
		return false, err
	}
	return result.CloseCanOccur, nil
}
