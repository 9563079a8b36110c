package host

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/screenmesh/conductor"
	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/internal/util"
	"github.com/hupe1980/screenmesh/logging"
)

// Options configures a Host.
type Options struct {
	// Root is the conductor owning every opened screen. Defaults to a
	// OneActive conductor named "root".
	Root RootConductor

	// Logger defaults to NoOpLogger.
	Logger logging.Logger

	// Callbacks are registered on the host's CallbackManager.
	Callbacks []Callback
}

// Host owns a root conductor and a registry of named screens. All methods
// are safe for concurrent use; lifecycle operations are serialized by the
// root conductor.
type Host struct {
	root      RootConductor
	logger    logging.Logger
	callbacks *CallbackManager

	mu      sync.RWMutex
	screens map[string]core.Screen
}

// New creates a Host.
func New(optFns ...func(o *Options)) *Host {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)
	if opts.Root == nil {
		opts.Root = conductor.NewOneActive("root", conductor.WithLogger(opts.Logger))
	}

	h := &Host{
		root:      opts.Root,
		logger:    opts.Logger,
		callbacks: NewCallbackManager(),
		screens:   make(map[string]core.Screen),
	}
	for _, cb := range opts.Callbacks {
		h.callbacks.RegisterCallback(cb)
	}
	return h
}

// Root returns the root conductor.
func (h *Host) Root() RootConductor { return h.root }

// Callbacks returns the callback manager.
func (h *Host) Callbacks() *CallbackManager { return h.callbacks }

// Register adds s to the registry under name.
func (h *Host) Register(name string, s core.Screen) error {
	if name == "" || s == nil {
		return fmt.Errorf("register %q: %w", name, core.ErrInvalidItem)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.screens[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	h.screens[name] = s
	return nil
}

// Unregister removes name from the registry. An open screen stays open.
func (h *Host) Unregister(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.screens[name]; !exists {
		return fmt.Errorf("%w: %s", ErrScreenNotFound, name)
	}
	delete(h.screens, name)
	return nil
}

// Screen returns the screen registered under name.
func (h *Host) Screen(name string) (core.Screen, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.screens[name]
	return s, ok
}

// Names returns the registered names in lexical order.
func (h *Host) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Sorted(maps.Keys(h.screens))
}

// IsOpen reports whether the screen registered under name is a child of the
// root conductor.
func (h *Host) IsOpen(name string) bool {
	s, ok := h.Screen(name)
	return ok && core.Contains(h.root.Children(), s)
}

func (h *Host) lookup(name string) (core.Screen, error) {
	s, ok := h.Screen(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScreenNotFound, name)
	}
	return s, nil
}

// Start activates the root conductor and with it every opened screen the
// root conducts.
func (h *Host) Start(ctx context.Context) (string, error) {
	opID := util.NewID()
	log := h.opLogger(opID)
	start := time.Now()

	if err := h.root.Activate(ctx); err != nil {
		return opID, h.fail(ctx, "start", &CallbackContext{OperationID: opID}, fmt.Errorf("start: %w", err))
	}

	h.logTransition(log, h.root.DisplayName(), "start", time.Since(start), nil)
	return opID, nil
}

// Open activates the screen registered under name through the root
// conductor. It fails with ErrActivationRefused when the root keeps its
// current item.
func (h *Host) Open(ctx context.Context, name string) (string, error) {
	opID := util.NewID()
	cbCtx := &CallbackContext{OperationID: opID, Name: name}

	s, err := h.lookup(name)
	if err != nil {
		return opID, h.fail(ctx, "open", cbCtx, err)
	}
	cbCtx.Screen = s

	if err := h.callbacks.ExecuteCallbacks(ctx, CallbackBeforeOpen, cbCtx); err != nil {
		return opID, h.fail(ctx, "open", cbCtx, err)
	}

	start := time.Now()
	var refused atomic.Bool
	unsubscribe := h.root.OnActivationProcessed(func(_ any, e core.ActivationProcessedEventArgs) {
		if core.SameItem(e.Item, s) && !e.Success {
			refused.Store(true)
		}
	})
	err = h.root.ActivateItem(ctx, s)
	unsubscribe()

	if err != nil {
		return opID, h.fail(ctx, "open", cbCtx, fmt.Errorf("open %q: %w", name, err))
	}
	if refused.Load() {
		return opID, h.fail(ctx, "open", cbCtx, fmt.Errorf("open %q: %w", name, ErrActivationRefused))
	}
	h.logTransition(h.opLogger(opID), name, "open", time.Since(start), nil)

	if err := h.callbacks.ExecuteCallbacks(ctx, CallbackAfterOpen, cbCtx); err != nil {
		return opID, h.fail(ctx, "open", cbCtx, err)
	}
	return opID, nil
}

// Close closes the screen registered under name through the root
// conductor. Closing a screen that is not open does nothing. It fails with
// core.ErrCloseVetoed when the screen refused to close.
func (h *Host) Close(ctx context.Context, name string) (string, error) {
	opID := util.NewID()
	cbCtx := &CallbackContext{OperationID: opID, Name: name}

	s, err := h.lookup(name)
	if err != nil {
		return opID, h.fail(ctx, "close", cbCtx, err)
	}
	cbCtx.Screen = s

	if !core.Contains(h.root.Children(), s) {
		h.opLogger(opID).Debug("Screen not open", "screen", name)
		return opID, nil
	}

	if err := h.callbacks.ExecuteCallbacks(ctx, CallbackBeforeClose, cbCtx); err != nil {
		return opID, h.fail(ctx, "close", cbCtx, err)
	}

	start := time.Now()
	if err := h.root.DeactivateItem(ctx, s, true); err != nil {
		return opID, h.fail(ctx, "close", cbCtx, fmt.Errorf("close %q: %w", name, err))
	}
	if core.Contains(h.root.Children(), s) {
		return opID, h.fail(ctx, "close", cbCtx, fmt.Errorf("close %q: %w", name, core.ErrCloseVetoed))
	}
	h.logTransition(h.opLogger(opID), name, "close", time.Since(start), nil)

	if err := h.callbacks.ExecuteCallbacks(ctx, CallbackAfterClose, cbCtx); err != nil {
		return opID, h.fail(ctx, "close", cbCtx, err)
	}
	return opID, nil
}

// Deactivate deactivates the screen registered under name without closing it.
func (h *Host) Deactivate(ctx context.Context, name string) (string, error) {
	opID := util.NewID()
	cbCtx := &CallbackContext{OperationID: opID, Name: name}

	s, err := h.lookup(name)
	if err != nil {
		return opID, h.fail(ctx, "deactivate", cbCtx, err)
	}
	cbCtx.Screen = s

	if err := h.root.DeactivateItem(ctx, s, false); err != nil {
		return opID, h.fail(ctx, "deactivate", cbCtx, fmt.Errorf("deactivate %q: %w", name, err))
	}
	return opID, nil
}

// CanClose asks the root conductor whether the whole tree may close. Like
// the conductors, it closes whatever children may close on the way.
func (h *Host) CanClose(ctx context.Context) (bool, error) {
	return h.root.CanClose(ctx)
}

// Shutdown closes the root conductor and every screen below it, unless a
// screen vetoes. A vetoed shutdown leaves the remaining screens open and
// fails with core.ErrCloseVetoed.
func (h *Host) Shutdown(ctx context.Context) (string, error) {
	opID := util.NewID()
	cbCtx := &CallbackContext{OperationID: opID}
	start := time.Now()

	ok, err := h.root.CanClose(ctx)
	if err != nil {
		return opID, h.fail(ctx, "shutdown", cbCtx, fmt.Errorf("shutdown: %w", err))
	}
	if !ok {
		return opID, h.fail(ctx, "shutdown", cbCtx, fmt.Errorf("shutdown: %w", core.ErrCloseVetoed))
	}

	if err := h.root.Deactivate(ctx, true); err != nil {
		return opID, h.fail(ctx, "shutdown", cbCtx, fmt.Errorf("shutdown: %w", err))
	}

	h.logTransition(h.opLogger(opID), h.root.DisplayName(), "shutdown", time.Since(start), nil)
	return opID, nil
}

// fail logs err, runs the on_error callbacks and returns err.
func (h *Host) fail(ctx context.Context, op string, cbCtx *CallbackContext, err error) error {
	cbCtx.Err = err
	h.logTransition(h.opLogger(cbCtx.OperationID), cbCtx.Name, op, 0, err)

	if cbErr := h.callbacks.ExecuteCallbacks(ctx, CallbackOnError, cbCtx); cbErr != nil {
		h.logger.Warn("on_error callback failed", "operation_id", cbCtx.OperationID, "error", cbErr.Error())
	}
	return err
}

func (h *Host) opLogger(opID string) logging.Logger {
	if l, ok := h.logger.(*logging.ScreenMeshLogger); ok {
		return l.WithComponent("host").WithOperation(opID)
	}
	return h.logger
}

func (h *Host) logTransition(log logging.Logger, screen, op string, dur time.Duration, err error) {
	if l, ok := log.(*logging.ScreenMeshLogger); ok {
		l.LogTransition(screen, op, dur, err)
		return
	}
	if err != nil {
		log.Error("Host operation failed", "screen", screen, "op", op, "error", err.Error())
		return
	}
	log.Debug("Host operation completed", "screen", screen, "op", op, "duration", dur)
}
