package manifest

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/screenmesh/conductor"
	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/logging"
	"github.com/hupe1980/screenmesh/screen"
)

// ErrScriptedFailure is returned by hooks of nodes declared with fail_init.
var ErrScriptedFailure = errors.New("scripted failure")

type builder struct {
	journal *Journal
	logger  logging.Logger
}

func (b *builder) build(ctx context.Context, n Node) (core.Screen, error) {
	switch n.Kind {
	case KindScreen, "":
		s := screen.New(n.Name,
			screen.WithInitializeHook(b.initHook(n)),
			screen.WithActivateHook(b.activateHook(n.Name)),
			screen.WithDeactivateHook(b.deactivateHook(n.Name)),
			screen.WithCanCloseHook(func(context.Context) (bool, error) {
				b.journal.record("%s:can_close", n.Name)
				return !n.VetoClose, nil
			}),
			screen.WithLogger(b.logger),
		)
		b.journal.observe(n.Name, s)
		return s, nil
	}

	children := make([]core.Child, 0, len(n.Children))
	for _, cn := range n.Children {
		child, err := b.build(ctx, cn)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	optFns := []func(o *conductor.Options){
		conductor.WithInitializeHook(b.initHook(n)),
		conductor.WithActivateHook(b.activateHook(n.Name)),
		conductor.WithDeactivateHook(b.deactivateHook(n.Name)),
		conductor.WithLogger(b.logger),
	}

	var c core.Screen
	switch n.Kind {
	case KindConductor:
		single := conductor.New(n.Name, optFns...)
		if len(children) > 0 {
			if err := single.ActivateItem(ctx, children[0]); err != nil {
				return nil, fmt.Errorf("%s: %w", n.Name, err)
			}
		}
		c = single
	case KindOneActive:
		oneActive := conductor.NewOneActive(n.Name, optFns...)
		if err := oneActive.Add(children...); err != nil {
			return nil, fmt.Errorf("%s: %w", n.Name, err)
		}
		if len(children) > 0 {
			if err := oneActive.ActivateItem(ctx, children[0]); err != nil {
				return nil, fmt.Errorf("%s: %w", n.Name, err)
			}
		}
		c = oneActive
	case KindAllActive:
		optFns = append(optFns, conductor.WithOpenItems(children...))
		c = conductor.NewAllActive(n.Name, optFns...)
	default:
		return nil, fmt.Errorf("%s: unknown kind %q", n.Name, n.Kind)
	}

	b.journal.observe(n.Name, c)
	return c, nil
}

func (b *builder) initHook(n Node) screen.Hook {
	return func(context.Context) error {
		b.journal.record("%s:initialize", n.Name)
		if n.FailInit {
			return ErrScriptedFailure
		}
		return nil
	}
}

func (b *builder) activateHook(name string) screen.Hook {
	return func(context.Context) error {
		b.journal.record("%s:activate", name)
		return nil
	}
}

func (b *builder) deactivateHook(name string) screen.DeactivateHook {
	return func(_ context.Context, close bool) error {
		if close {
			b.journal.record("%s:deactivate(close)", name)
		} else {
			b.journal.record("%s:deactivate", name)
		}
		return nil
	}
}
