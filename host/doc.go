// Package host runs a tree of screens under a root conductor.
//
// A Host keeps a registry of named screens and opens or closes them through
// the root conductor. Every operation gets a unique operation ID that is
// attached to log records and passed to lifecycle callbacks:
//
//	h := host.New(func(o *host.Options) {
//		o.Logger = logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	})
//	_ = h.Register("inbox", inbox)
//	_, _ = h.Start(ctx)
//	_, err := h.Open(ctx, "inbox")
//
// Callbacks run around Open and Close (before_open, after_open,
// before_close, after_close) and whenever an operation fails (on_error). A
// before callback returning an error aborts the operation.
package host
