// Package screenmesh provides a high-level façade over the host and the
// conductors, for applications that manage a tree of lifecycle-aware screens.
// Most applications interact with this package by:
//  1. Creating a ScreenMesh via New() (optionally choosing the root conductor
//     and close strategy)
//  2. Registering named screens, conductors or types embedding them
//  3. Starting the mesh and opening, closing and finally shutting down screens
//
// The façade delegates to host.Host. Lower level control is available through
// the screen and conductor packages directly.
package screenmesh

import (
	"context"

	"github.com/hupe1980/screenmesh/conductor"
	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/host"
	"github.com/hupe1980/screenmesh/logging"
	"github.com/hupe1980/screenmesh/screen"
)

// Options configures the ScreenMesh instance.
type Options struct {
	// RootKind selects the root conductor: "one_active" (default),
	// "all_active" or "conductor".
	RootKind string

	// RootName is the display name of the root conductor.
	RootName string

	// CloseStrategy of the root conductor (defaults to the guard based
	// conductor.DefaultCloseStrategy if nil).
	CloseStrategy core.CloseStrategy

	// Platform of the root conductor (defaults to platform.Current()).
	Platform core.PlatformProvider

	// Callbacks observe host operations.
	Callbacks []host.Callback

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// ScreenMesh is the high-level façade over a host and its root conductor.
type ScreenMesh struct {
	opts Options
	host *host.Host
}

// New creates a new ScreenMesh. It fails only for an unknown RootKind.
func New(optFns ...func(o *Options)) (*ScreenMesh, error) {
	opts := Options{
		RootKind: host.RootOneActive,
		RootName: "root",
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	root, err := host.NewRoot(opts.RootKind, opts.RootName, func(o *conductor.Options) {
		o.CloseStrategy = opts.CloseStrategy
		o.Logger = opts.Logger
		o.Platform = opts.Platform
	})
	if err != nil {
		return nil, err
	}

	h := host.New(func(o *host.Options) {
		o.Root = root
		o.Logger = opts.Logger
		o.Callbacks = opts.Callbacks
	})

	return &ScreenMesh{opts: opts, host: h}, nil
}

// Host returns the underlying host.
func (m *ScreenMesh) Host() *host.Host { return m.host }

// Root returns the root conductor.
func (m *ScreenMesh) Root() host.RootConductor { return m.host.Root() }

// Register adds a named screen.
func (m *ScreenMesh) Register(name string, s core.Screen) error { return m.host.Register(name, s) }

// Start activates the root conductor.
func (m *ScreenMesh) Start(ctx context.Context) (string, error) { return m.host.Start(ctx) }

// Open activates the named screen through the root conductor.
func (m *ScreenMesh) Open(ctx context.Context, name string) (string, error) {
	return m.host.Open(ctx, name)
}

// Close closes the named screen through the root conductor.
func (m *ScreenMesh) Close(ctx context.Context, name string) (string, error) {
	return m.host.Close(ctx, name)
}

// Shutdown closes the whole tree unless a screen vetoes.
func (m *ScreenMesh) Shutdown(ctx context.Context) (string, error) { return m.host.Shutdown(ctx) }

// NewScreen creates a screen that logs through the mesh's logger.
func (m *ScreenMesh) NewScreen(name string, optFns ...func(o *screen.Options)) *screen.Screen {
	return screen.New(name, append([]func(o *screen.Options){screen.WithLogger(m.opts.Logger)}, optFns...)...)
}
