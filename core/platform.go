package core

import "context"

// CloseAction closes the view attached to a screen.
type CloseAction func(ctx context.Context) error

// PlatformProvider is the boundary to the hosting UI platform. screenmesh
// calls it but never implements thread marshalling itself.
type PlatformProvider interface {
	// InDesignMode reports whether the framework runs inside a designer.
	InDesignMode() bool
	// PropertyChangeNotificationsOnUIThread reports whether property change
	// notifications must be dispatched through OnUIThread.
	PropertyChangeNotificationsOnUIThread() bool
	// BeginOnUIThread schedules action without waiting for it.
	BeginOnUIThread(action func())
	// OnUIThread runs action and waits for it.
	OnUIThread(action func())
	// OnUIThreadAsync runs action on the UI thread and returns its error.
	OnUIThreadAsync(ctx context.Context, action func(ctx context.Context) error) error
	// ExecuteOnFirstLoad runs handler the first time the view is loaded.
	ExecuteOnFirstLoad(handler func())
	// GetViewCloseAction resolves the action closing the view of viewModel.
	GetViewCloseAction(viewModel any, dialogResult *bool) CloseAction
}
