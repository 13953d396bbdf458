// Package logger provides structured logging setup and context propagation
// helpers built on log/slog. Handlers and components receive their logger
// either directly (constructor injection) or through the request context.
package logger
