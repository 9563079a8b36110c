package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/screenmesh/core"
)

// CallbackType identifies the point in a host operation at which a
// callback runs.
type CallbackType string

const (
	// CallbackBeforeOpen runs before a screen is activated through the root.
	CallbackBeforeOpen CallbackType = "before_open"

	// CallbackAfterOpen runs after the root accepted the activation.
	CallbackAfterOpen CallbackType = "after_open"

	// CallbackBeforeClose runs before a screen is closed through the root.
	CallbackBeforeClose CallbackType = "before_close"

	// CallbackAfterClose runs after the screen left the root.
	CallbackAfterClose CallbackType = "after_close"

	// CallbackOnError runs when an operation fails. Its own errors are logged,
	// never returned.
	CallbackOnError CallbackType = "on_error"
)

// CallbackContext carries the details of the operation a callback observes.
type CallbackContext struct {
	// OperationID identifies the host operation.
	OperationID string

	// Name is the registry name of the screen, empty for host wide operations.
	Name string

	// Screen is the screen the operation acts on, nil for host wide operations.
	Screen core.Screen

	// CallbackType is the point at which the callback runs.
	CallbackType CallbackType

	// Err is the failure reported to on_error callbacks.
	Err error

	// Metadata holds additional operation details.
	Metadata map[string]any
}

// Callback is a hook into host operations.
type Callback interface {
	// Type returns the point at which this callback runs.
	Type() CallbackType

	// Execute runs the callback. Errors from before callbacks abort the
	// operation.
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback adapts a function to Callback.
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a callback running fn at callbackType.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type implements Callback.
func (c *FunctionCallback) Type() CallbackType { return c.callbackType }

// Execute implements Callback.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// CallbackManager keeps callbacks grouped by type and runs them in
// registration order. It is safe for concurrent use.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// RegisterCallback adds callback under its type.
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// ExecuteCallbacks runs the callbacks registered for callbackType and stops
// at the first error.
func (cm *CallbackManager) ExecuteCallbacks(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) error {
	cm.mu.RLock()
	callbacks := append([]Callback(nil), cm.callbacks[callbackType]...)
	cm.mu.RUnlock()

	callbackCtx.CallbackType = callbackType
	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return fmt.Errorf("%s callback: %w", callbackType, err)
		}
	}

	return nil
}

// LoggingCallback writes a one line summary of each operation it observes.
type LoggingCallback struct {
	callbackType CallbackType
	logger       func(message string)
}

// NewLoggingCallback creates a LoggingCallback for callbackType.
func NewLoggingCallback(callbackType CallbackType, logger func(message string)) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type implements Callback.
func (c *LoggingCallback) Type() CallbackType { return c.callbackType }

// Execute implements Callback.
func (c *LoggingCallback) Execute(_ context.Context, callbackCtx *CallbackContext) error {
	if c.logger == nil {
		return nil
	}

	message := fmt.Sprintf("[%s] screen=%s op=%s", c.callbackType, callbackCtx.Name, callbackCtx.OperationID)
	if callbackCtx.Err != nil {
		message += " error=" + callbackCtx.Err.Error()
	}
	c.logger(message)

	return nil
}
