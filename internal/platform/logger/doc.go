// Package logger provides structured logging functionality for the application.
//
// It configures a JSON log/slog handler from the server settings and carries
// request-scoped loggers through context.Context.
package logger
