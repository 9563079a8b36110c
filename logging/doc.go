// Package logging is the logging seam of screenmesh.
//
// Screens, conductors and the host log through the small Logger interface,
// which *slog.Logger already satisfies. ScreenMeshLogger adds a component,
// a host operation ID and lifecycle records (transitions, close decisions);
// NoOpLogger is the default everywhere.
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	mesh, err := screenmesh.New(func(o *screenmesh.Options) { o.Logger = logger })
package logging
