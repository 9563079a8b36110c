package screen

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/internal/util"
	"github.com/hupe1980/screenmesh/logging"
	"github.com/hupe1980/screenmesh/platform"
)

// Property names raised through OnPropertyChanged.
const (
	PropDisplayName   = "DisplayName"
	PropIsInitialized = "IsInitialized"
	PropIsActive      = "IsActive"
	PropParent        = "Parent"
)

// Screen is the lifecycle state machine shared by every screen and conductor.
// Embed *Screen in concrete types; it implements core.Screen.
//
// Transitions (Activate, Deactivate, Reactivate) on one Screen are serialized.
// State accessors are safe for concurrent use.
type Screen struct {
	id string

	transitionMu sync.Mutex   // serializes transitions
	mu           sync.RWMutex // protects the fields below
	displayName  string
	initialized  bool
	active       bool
	initPending  bool // initialized by a transition that never completed activation
	parent       core.Parent

	sender       any
	onInitialize Hook
	onActivate   Hook
	onDeactivate DeactivateHook
	canClose     CanCloseHook
	logger       logging.Logger
	platform     core.PlatformProvider

	activated              core.Event[core.ActivationEventArgs]
	attemptingDeactivation core.Event[core.DeactivationEventArgs]
	deactivated            core.AsyncEvent[core.DeactivationEventArgs]
	propertyChanged        core.Event[core.PropertyChangedEventArgs]
}

var _ core.Screen = (*Screen)(nil)

// New constructs an uninitialized, inactive Screen.
func New(name string, optFns ...func(o *Options)) *Screen {
	opts := Options{DisplayName: name}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Screen{
		id:           util.NewID(),
		displayName:  opts.DisplayName,
		onInitialize: opts.OnInitialize,
		onActivate:   opts.OnActivate,
		onDeactivate: opts.OnDeactivate,
		canClose:     opts.CanClose,
		logger:       logging.OrNoOp(opts.Logger),
		platform:     opts.Platform,
		sender:       opts.Sender,
	}
	if s.platform == nil {
		s.platform = platform.Current()
	}
	if s.sender == nil {
		s.sender = s
	}
	return s
}

// ID returns the unique identifier of this screen.
func (s *Screen) ID() string { return s.id }

// DisplayName returns the human readable name.
func (s *Screen) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayName
}

// SetDisplayName updates the display name.
func (s *Screen) SetDisplayName(name string) {
	s.mu.Lock()
	changed := s.displayName != name
	s.displayName = name
	s.mu.Unlock()

	if changed {
		s.NotifyOfPropertyChange(PropDisplayName)
	}
}

// String implements fmt.Stringer.
func (s *Screen) String() string {
	return fmt.Sprintf("%s (%s)", s.DisplayName(), util.ShortID(s.id))
}

// IsInitialized reports whether the initialize hook has completed.
func (s *Screen) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// IsActive reports whether the screen is active.
func (s *Screen) IsActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Parent returns the owning conductor, or nil.
func (s *Screen) Parent() core.Parent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parent
}

// SetParent sets the back-reference to the owning conductor. Conductors call
// it when the screen joins or leaves their collection.
func (s *Screen) SetParent(p core.Parent) {
	s.mu.Lock()
	changed := s.parent != p
	s.parent = p
	s.mu.Unlock()

	if changed {
		s.NotifyOfPropertyChange(PropParent)
	}
}

// Sender returns the value passed to event handlers as sender.
func (s *Screen) Sender() any { return s.sender }

// Logger returns the screen's logger.
func (s *Screen) Logger() logging.Logger { return s.logger }

// Platform returns the screen's platform provider.
func (s *Screen) Platform() core.PlatformProvider { return s.platform }

// OnActivated implements core.Activatable.
func (s *Screen) OnActivated(h core.Handler[core.ActivationEventArgs]) func() {
	return s.activated.Subscribe(h)
}

// OnAttemptingDeactivation implements core.Activatable.
func (s *Screen) OnAttemptingDeactivation(h core.Handler[core.DeactivationEventArgs]) func() {
	return s.attemptingDeactivation.Subscribe(h)
}

// OnDeactivated implements core.Activatable.
func (s *Screen) OnDeactivated(h core.AsyncHandler[core.DeactivationEventArgs]) func() {
	return s.deactivated.Subscribe(h)
}

// OnPropertyChanged registers a handler for observable property changes.
func (s *Screen) OnPropertyChanged(h core.Handler[core.PropertyChangedEventArgs]) func() {
	return s.propertyChanged.Subscribe(h)
}

// NotifyOfPropertyChange raises a property change notification, through the
// platform's UI thread when the platform asks for it.
func (s *Screen) NotifyOfPropertyChange(name string) {
	emit := func() {
		s.propertyChanged.Emit(s.sender, core.PropertyChangedEventArgs{PropertyName: name})
	}
	if s.platform.PropertyChangeNotificationsOnUIThread() {
		s.platform.OnUIThread(emit)
		return
	}
	emit()
}

// ReleaseSubscriptions drops every event handler registered on this screen.
func (s *Screen) ReleaseSubscriptions() {
	s.activated.Clear()
	s.attemptingDeactivation.Clear()
	s.deactivated.Clear()
	s.propertyChanged.Clear()
}

// Activate initializes the screen if needed, runs the activate hook, marks
// the screen active and fires Activated. Activating an active screen is a
// no-op. A failing or cancelled hook leaves the screen inactive; a cancelled
// first activation also leaves it uninitialized.
func (s *Screen) Activate(ctx context.Context) error {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()
	return s.activateLocked(ctx)
}

func (s *Screen) activateLocked(ctx context.Context) error {
	if s.IsActive() {
		return nil
	}

	initializedNow := false
	if !s.IsInitialized() {
		if err := s.runHook(ctx, core.OpInitialize, s.onInitialize, true); err != nil {
			return err
		}
		s.mu.Lock()
		s.initialized = true
		s.initPending = true
		s.mu.Unlock()
		s.NotifyOfPropertyChange(PropIsInitialized)
		initializedNow = true
	}

	s.logger.Info("Activating", "screen", s.DisplayName(), "screen_id", s.id)
	if err := s.runHook(ctx, core.OpActivate, s.onActivate, true); err != nil {
		if initializedNow && core.IsCanceled(err) {
			s.rollbackInitialization()
		}
		return err
	}

	s.mu.Lock()
	wasInitialized := s.initPending
	s.initPending = false
	s.active = true
	s.mu.Unlock()
	s.NotifyOfPropertyChange(PropIsActive)

	s.activated.Emit(s.sender, core.ActivationEventArgs{WasInitialized: wasInitialized})
	return nil
}

// rollbackInitialization returns a screen whose activation was cancelled
// right after initializing to the uninitialized state.
func (s *Screen) rollbackInitialization() {
	s.mu.Lock()
	s.initialized = false
	s.initPending = false
	s.mu.Unlock()
	s.NotifyOfPropertyChange(PropIsInitialized)
}

// Reactivate re-runs the activate hook of an active screen without changing
// state. An inactive screen is activated instead.
func (s *Screen) Reactivate(ctx context.Context) error {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	if !s.IsActive() {
		return s.activateLocked(ctx)
	}

	s.logger.Debug("Reactivating", "screen", s.DisplayName(), "screen_id", s.id)
	return s.runHook(ctx, core.OpReactivate, s.onActivate, true)
}

// Deactivate runs the deactivation protocol. It is a no-op unless the screen
// is active, or initialized and being closed. Closing leaves the screen
// uninitialized and inactive. Deactivate returns after every Deactivated
// handler has completed.
func (s *Screen) Deactivate(ctx context.Context, close bool) error {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	s.mu.RLock()
	active, initialized := s.active, s.initialized
	s.mu.RUnlock()

	if !active && !(initialized && close) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return s.wrap(core.OpDeactivate, err)
	}

	args := core.DeactivationEventArgs{WasClosed: close}
	s.attemptingDeactivation.Emit(s.sender, args)

	s.logger.Info("Deactivating", "screen", s.DisplayName(), "screen_id", s.id, "close", close)
	var hook Hook
	if s.onDeactivate != nil {
		hook = func(ctx context.Context) error { return s.onDeactivate(ctx, close) }
	}
	if err := s.runHook(ctx, core.OpDeactivate, hook, false); err != nil {
		return err
	}

	s.mu.Lock()
	s.active = false
	if close {
		s.initialized = false
		s.initPending = false
	}
	s.mu.Unlock()
	if active {
		s.NotifyOfPropertyChange(PropIsActive)
	}
	if close && initialized {
		s.NotifyOfPropertyChange(PropIsInitialized)
	}

	if err := s.deactivated.Invoke(ctx, s.sender, args); err != nil {
		return fmt.Errorf("deactivated handlers of %q: %w", s.DisplayName(), err)
	}

	if close {
		s.logger.Info("Closed", "screen", s.DisplayName(), "screen_id", s.id)
	}
	return nil
}

// CanClose asks the configured guard; screens without a guard may always close.
func (s *Screen) CanClose(ctx context.Context) (bool, error) {
	if s.canClose == nil {
		return true, nil
	}
	ok, err := s.canClose(ctx)
	if err != nil {
		return false, s.wrap(core.OpCanClose, err)
	}
	return ok, nil
}

// TryClose asks the owning conductor to close this screen. Screens without a
// conductor parent run the platform's view close action instead.
func (s *Screen) TryClose(ctx context.Context, dialogResult *bool) error {
	if conductor, ok := s.Parent().(core.Conductor); ok {
		return conductor.DeactivateItem(ctx, s, true)
	}

	action := s.platform.GetViewCloseAction(s.sender, dialogResult)
	if action == nil {
		return nil
	}
	if err := s.platform.OnUIThreadAsync(ctx, action); err != nil {
		return s.wrap(core.OpClose, err)
	}
	return nil
}

// runHook runs hook with cancellation checks. With checkAfter set, a context
// cancelled while the hook ran is reported even if the hook returned nil.
func (s *Screen) runHook(ctx context.Context, op core.Op, hook Hook, checkAfter bool) error {
	if err := ctx.Err(); err != nil {
		return s.wrap(op, err)
	}
	if hook != nil {
		if err := hook(ctx); err != nil {
			return s.wrap(op, err)
		}
	}
	if checkAfter {
		if err := ctx.Err(); err != nil {
			return s.wrap(op, err)
		}
	}
	return nil
}

func (s *Screen) wrap(op core.Op, err error) error {
	le := &core.LifecycleError{Op: op, Screen: s.DisplayName(), Err: err}
	if core.IsCanceled(err) {
		s.logger.Warn("Lifecycle transition cancelled", "screen", le.Screen, "op", string(op))
	} else {
		s.logger.Error("Lifecycle transition failed", "screen", le.Screen, "op", string(op), "error", err.Error())
	}
	return le
}
