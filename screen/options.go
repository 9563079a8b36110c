package screen

import (
	"context"

	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/logging"
)

// Hook is an initialize or activate hook.
type Hook func(ctx context.Context) error

// DeactivateHook runs while deactivating; close reports whether the screen
// is being closed.
type DeactivateHook func(ctx context.Context, close bool) error

// CanCloseHook decides whether the screen may close.
type CanCloseHook func(ctx context.Context) (bool, error)

// Options configures a Screen.
type Options struct {
	// DisplayName defaults to the name passed to New.
	DisplayName string

	// Hooks. Nil hooks succeed immediately.
	OnInitialize Hook
	OnActivate   Hook
	OnDeactivate DeactivateHook
	CanClose     CanCloseHook

	// Sender is passed to event handlers. Types embedding a Screen set it to
	// themselves so subscribers see the outer value. Defaults to the Screen.
	Sender any

	// Logger defaults to NoOp logger if nil.
	Logger logging.Logger

	// Platform defaults to platform.Current() if nil.
	Platform core.PlatformProvider
}

// WithInitializeHook sets the hook run once before the first activation.
func WithInitializeHook(h Hook) func(o *Options) {
	return func(o *Options) { o.OnInitialize = h }
}

// WithActivateHook sets the hook run on every activation.
func WithActivateHook(h Hook) func(o *Options) {
	return func(o *Options) { o.OnActivate = h }
}

// WithDeactivateHook sets the hook run on every deactivation.
func WithDeactivateHook(h DeactivateHook) func(o *Options) {
	return func(o *Options) { o.OnDeactivate = h }
}

// WithCanCloseHook sets the close guard.
func WithCanCloseHook(h CanCloseHook) func(o *Options) {
	return func(o *Options) { o.CanClose = h }
}

// WithSender sets the value passed as sender to event handlers.
func WithSender(sender any) func(o *Options) {
	return func(o *Options) { o.Sender = sender }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithPlatform sets the platform provider.
func WithPlatform(p core.PlatformProvider) func(o *Options) {
	return func(o *Options) { o.Platform = p }
}
