// Package logger wraps a zap sugared logger for the daemon and the CLI.
//
// A process-wide logger is created at init with a console encoder. Scoped
// loggers travel in a context.Context (ToContext, WithName, WithKV) and
// the level helpers (Infof, ErrorKV, ...) always log through the logger
// found in the context, falling back to the global one.
package logger
