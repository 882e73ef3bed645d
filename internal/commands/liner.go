package commands

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/float-ritual-stack/float-liner/internal/logging"
)

const (
	executeShellMessageType = "liner.shell.execute"
	importFileMessageType   = "liner.markdown.import_file"
)

var (
	_ command.Commander[ExecuteShellCommand] = (*ExecuteShellHandler)(nil)
	_ command.Commander[ImportFileCommand]   = (*ImportFileHandler)(nil)
)

// ShellExecutor is the slice of the application surface the shell command
// handler depends on.
type ShellExecutor interface {
	ExecuteShell(ctx context.Context, blockID, command string) (string, error)
}

// FileImporter ingests a markdown file into the document.
type FileImporter interface {
	ImportFile(ctx context.Context, path string) (string, error)
}

// ExecuteShellCommand runs a shell command on behalf of a block and ingests
// its output under that block.
type ExecuteShellCommand struct {
	BlockID string `json:"block_id"`
	Command string `json:"command"`
}

// Type implements command.Message.
func (ExecuteShellCommand) Type() string { return executeShellMessageType }

// Validate ensures both the target block and the command are present.
func (cmd ExecuteShellCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.BlockID, validation.Required, validation.By(notBlank("liner.shell.execute.block_id_required", "block id is required"))),
		validation.Field(&cmd.Command, validation.Required, validation.By(notBlank("liner.shell.execute.command_required", "command is required"))),
	)
}

// ImportFileCommand ingests one markdown file into the document under the
// root block.
type ImportFileCommand struct {
	Path string `json:"path"`
}

// Type implements command.Message.
func (ImportFileCommand) Type() string { return importFileMessageType }

// Validate ensures a path was supplied.
func (cmd ImportFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(notBlank("liner.markdown.import_file.path_required", "path is required"))),
	)
}

func notBlank(code, msg string) func(value any) error {
	return func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError(code, msg)
		}
		return nil
	}
}

// ExecuteShellHandler adapts the shell executor to the command foundation.
type ExecuteShellHandler struct {
	inner *Handler[ExecuteShellCommand]
}

// NewExecuteShellHandler builds the handler bound to the given executor.
func NewExecuteShellHandler(exec ShellExecutor, logger logging.Logger, opts ...HandlerOption[ExecuteShellCommand]) *ExecuteShellHandler {
	fn := func(ctx context.Context, msg ExecuteShellCommand) error {
		_, err := exec.ExecuteShell(ctx, msg.BlockID, msg.Command)
		return err
	}
	handlerOpts := append([]HandlerOption[ExecuteShellCommand]{
		WithLogger[ExecuteShellCommand](logger),
		WithOperation[ExecuteShellCommand]("shell.execute"),
	}, opts...)
	return &ExecuteShellHandler{inner: NewHandler(fn, handlerOpts...)}
}

// Execute satisfies command.Commander[ExecuteShellCommand].
func (h *ExecuteShellHandler) Execute(ctx context.Context, msg ExecuteShellCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ImportFileHandler adapts the file importer to the command foundation.
type ImportFileHandler struct {
	inner *Handler[ImportFileCommand]
}

// NewImportFileHandler builds the handler bound to the given importer.
func NewImportFileHandler(importer FileImporter, logger logging.Logger, opts ...HandlerOption[ImportFileCommand]) *ImportFileHandler {
	fn := func(ctx context.Context, msg ImportFileCommand) error {
		_, err := importer.ImportFile(ctx, msg.Path)
		return err
	}
	handlerOpts := append([]HandlerOption[ImportFileCommand]{
		WithLogger[ImportFileCommand](logger),
		WithOperation[ImportFileCommand]("markdown.import_file"),
	}, opts...)
	return &ImportFileHandler{inner: NewHandler(fn, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportFileCommand].
func (h *ImportFileHandler) Execute(ctx context.Context, msg ImportFileCommand) error {
	return h.inner.Execute(ctx, msg)
}
