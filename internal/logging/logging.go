// Package logging defines the leveled logging contract used across the
// module and helpers for module-scoped child loggers. The interface mirrors
// github.com/goliatone/go-logger so the provider in this package can hand
// its loggers straight to callers.
package logging

import "context"

// Logger is the leveled logging contract expected by every component.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger is an optional extension for attaching persistent structured
// fields. Implementations return a child logger carrying the fields on every
// entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// Provider exposes named child loggers.
type Provider interface {
	GetLogger(name string) Logger
}

// NoOp returns a logger that discards everything. Components fall back to it
// when no logger is injected so call sites never nil-check.
func NoOp() Logger { return noop{} }

type noop struct{}

func (noop) Trace(string, ...any)                {}
func (noop) Debug(string, ...any)                {}
func (noop) Info(string, ...any)                 {}
func (noop) Warn(string, ...any)                 {}
func (noop) Error(string, ...any)                {}
func (noop) Fatal(string, ...any)                {}
func (n noop) WithContext(context.Context) Logger { return n }

// WithFields attaches structured fields when the logger supports the
// FieldsLogger extension; otherwise the logger is returned unchanged.
func WithFields(logger Logger, fields map[string]any) Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fl, ok := logger.(FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		return fl.WithFields(copied)
	}
	return logger
}

// ModuleLogger returns a child logger scoped to the given module name with
// the module attached as a structured field. A nil provider yields a no-op.
func ModuleLogger(provider Provider, module string) Logger {
	if module == "" {
		module = "liner"
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}
