package conductor

import (
	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/logging"
	"github.com/hupe1980/screenmesh/screen"
)

// PropActiveItem is raised through OnPropertyChanged when the active item changes.
const PropActiveItem = "ActiveItem"

// Options configures a conductor.
type Options struct {
	// DisplayName defaults to the name passed to the constructor.
	DisplayName string

	// CloseStrategy defaults to DefaultCloseStrategy.
	CloseStrategy core.CloseStrategy

	// Hooks of the conductor itself. They run before the conductor
	// activates or deactivates its children.
	OnInitialize screen.Hook
	OnActivate   screen.Hook
	OnDeactivate screen.DeactivateHook

	// Sender is passed to event handlers. Defaults to the conductor.
	Sender any

	Logger   logging.Logger
	Platform core.PlatformProvider

	// OpenItems are joined and activated when an AllActive conductor
	// initializes. Ignored by the other conductors.
	OpenItems []core.Child
}

func newOptions(name string, optFns []func(o *Options)) Options {
	opts := Options{DisplayName: name}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.CloseStrategy == nil {
		opts.CloseStrategy = DefaultCloseStrategy{}
	}
	return opts
}

// WithCloseStrategy replaces the close strategy.
func WithCloseStrategy(s core.CloseStrategy) func(o *Options) {
	return func(o *Options) { o.CloseStrategy = s }
}

// WithInitializeHook sets the conductor's own initialize hook.
func WithInitializeHook(h screen.Hook) func(o *Options) {
	return func(o *Options) { o.OnInitialize = h }
}

// WithActivateHook sets the conductor's own activate hook.
func WithActivateHook(h screen.Hook) func(o *Options) {
	return func(o *Options) { o.OnActivate = h }
}

// WithDeactivateHook sets the conductor's own deactivate hook.
func WithDeactivateHook(h screen.DeactivateHook) func(o *Options) {
	return func(o *Options) { o.OnDeactivate = h }
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

// WithOpenItems lists items an AllActive conductor opens on initialization.
func WithOpenItems(items ...core.Child) func(o *Options) {
	return func(o *Options) { o.OpenItems = append(o.OpenItems, items...) }
}
