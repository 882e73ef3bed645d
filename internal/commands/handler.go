// Package commands wraps go-command execution with the shared concerns every
// boundary operation needs: message validation, context management,
// structured logging, and error categorization.
package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/float-ritual-stack/float-liner/internal/logging"
)

const defaultTimeout = 30 * time.Second

const (
	codeValidationFailed = "COMMAND_VALIDATION_FAILED"
	codeExecutionFailed  = "COMMAND_EXECUTION_FAILED"
	codeContextError     = "COMMAND_CONTEXT_ERROR"
)

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler satisfies command.Commander for any message type while applying
// validation, timeout enforcement, and logging around the wrapped function.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    logging.Logger
	timeout   time.Duration
	operation string
}

// NewHandler wraps fn with the shared execution concerns.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute conforms to command.Commander[T].Execute.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapCategory(err, goerrors.CategoryValidation, "command validation failed", codeValidationFailed)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return wrapCategory(err, goerrors.CategoryCommand, "command context error", codeContextError)
	}

	logger := logging.WithFields(h.logger, map[string]any{
		"command":   command.GetMessageType(msg),
		"operation": h.operation,
	})
	logger.Debug("command.execute.start")

	start := time.Now()
	if err := h.exec(ctx, msg); err != nil {
		logger.Error("command.execute.failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return wrapCategory(err, goerrors.CategoryCommand, "command execution failed", codeExecutionFailed)
	}

	logger.Info("command.execute.success", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// WithTimeout overrides the default execution timeout; zero disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout < 0 {
			timeout = 0
		}
		h.timeout = timeout
	}
}

// WithLogger injects the execution logger. Defaults to a no-op logger.
func WithLogger[T command.Message](logger logging.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithOperation sets the operation name attached to every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

func wrapCategory(err error, category goerrors.Category, msg, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}
