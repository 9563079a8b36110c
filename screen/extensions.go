package screen

import (
	"context"

	"github.com/hupe1980/screenmesh/core"
)

// TryActivate activates v if it is core.Activatable, otherwise does nothing.
func TryActivate(ctx context.Context, v any) error {
	if a, ok := v.(core.Activatable); ok {
		return a.Activate(ctx)
	}
	return nil
}

// TryDeactivate deactivates v if it is core.Activatable, otherwise does nothing.
func TryDeactivate(ctx context.Context, v any, close bool) error {
	if a, ok := v.(core.Activatable); ok {
		return a.Deactivate(ctx, close)
	}
	return nil
}

// TryReactivate re-runs the activate hook of an active item that supports
// it; anything else falls back to TryActivate.
func TryReactivate(ctx context.Context, v any) error {
	if r, ok := v.(core.Reactivator); ok {
		if a, isActivatable := v.(core.Activatable); !isActivatable || a.IsActive() {
			return r.Reactivate(ctx)
		}
	}
	return TryActivate(ctx, v)
}

// CloseItem asks conductor to close item.
func CloseItem(ctx context.Context, conductor core.Conductor, item core.Child) error {
	return conductor.DeactivateItem(ctx, item, true)
}

// ActivateWith activates child whenever parent is activated. Activation
// errors are passed to onError, which may be nil.
func ActivateWith(child, parent core.Activatable, onError func(error)) (unsubscribe func()) {
	return parent.OnActivated(func(any, core.ActivationEventArgs) {
		if err := child.Activate(context.Background()); err != nil && onError != nil {
			onError(err)
		}
	})
}

// DeactivateWith deactivates child whenever parent is deactivated, closing it
// when the parent closes. The parent's Deactivate waits for the child.
func DeactivateWith(child, parent core.Activatable) (unsubscribe func()) {
	return parent.OnDeactivated(func(ctx context.Context, _ any, args core.DeactivationEventArgs) error {
		return child.Deactivate(ctx, args.WasClosed)
	})
}

// ConductWith ties both activation and deactivation of child to parent.
func ConductWith(child, parent core.Activatable, onError func(error)) (unsubscribe func()) {
	unsubActivate := ActivateWith(child, parent, onError)
	unsubDeactivate := DeactivateWith(child, parent)
	return func() {
		unsubActivate()
		unsubDeactivate()
	}
}
