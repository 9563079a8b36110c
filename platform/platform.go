// Package platform provides the default core.PlatformProvider. It performs no
// UI thread marshalling: every action runs inline on the calling goroutine.
// Hosts embedding screenmesh in a UI toolkit supply their own provider.
package platform

import (
	"context"
	"sync"

	"github.com/hupe1980/screenmesh/core"
)

// Default is a core.PlatformProvider without platform enlightenment.
type Default struct {
	// DesignMode is reported by InDesignMode.
	DesignMode bool
	// NotifyOnUIThread is reported by PropertyChangeNotificationsOnUIThread.
	NotifyOnUIThread bool
	// CloseActionResolver, when set, resolves view close actions. The
	// default close action does nothing.
	CloseActionResolver func(viewModel any, dialogResult *bool) core.CloseAction
}

var _ core.PlatformProvider = (*Default)(nil)

// New returns a Default provider that dispatches property change
// notifications through OnUIThread.
func New() *Default {
	return &Default{NotifyOnUIThread: true}
}

// InDesignMode implements core.PlatformProvider.
func (d *Default) InDesignMode() bool { return d.DesignMode }

// PropertyChangeNotificationsOnUIThread implements core.PlatformProvider.
func (d *Default) PropertyChangeNotificationsOnUIThread() bool { return d.NotifyOnUIThread }

// BeginOnUIThread runs action inline.
func (d *Default) BeginOnUIThread(action func()) { action() }

// OnUIThread runs action inline.
func (d *Default) OnUIThread(action func()) { action() }

// OnUIThreadAsync runs action inline and returns its error.
func (d *Default) OnUIThreadAsync(ctx context.Context, action func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return action(ctx)
}

// ExecuteOnFirstLoad runs handler inline.
func (d *Default) ExecuteOnFirstLoad(handler func()) { handler() }

// GetViewCloseAction implements core.PlatformProvider.
func (d *Default) GetViewCloseAction(viewModel any, dialogResult *bool) core.CloseAction {
	if d.CloseActionResolver != nil {
		return d.CloseActionResolver(viewModel, dialogResult)
	}
	return func(context.Context) error { return nil }
}

var (
	currentMu sync.RWMutex
	current   core.PlatformProvider = New()
)

// Current returns the process wide provider used by screens that were not
// given one explicitly.
func Current() core.PlatformProvider {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetCurrent replaces the process wide provider and returns a function
// restoring the previous one.
func SetCurrent(p core.PlatformProvider) (restore func()) {
	currentMu.Lock()
	defer currentMu.Unlock()
	prev := current
	current = p
	return func() {
		currentMu.Lock()
		defer currentMu.Unlock()
		current = prev
	}
}
