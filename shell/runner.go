// Package shell executes external commands and ingests their output into the
// block tree: stdout and stderr are parsed as markdown and appended as
// subtrees under the invoking block, which is rewritten with the command's
// status and exit code.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrLaunchFailed marks a command that could not be started at all. Nothing
// was mutated; the request is safe to retry.
var ErrLaunchFailed = errors.New("shell: failed to launch command")

// Result captures what an executed command produced. ExitCode is -1 when
// the process terminated without reporting one (signal termination).
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner is the external-process collaborator. Implementations block until
// the process finishes; the ingestion service never holds the document lock
// across a Run call.
type Runner interface {
	Run(ctx context.Context, command string) (Result, error)
}

// ExecRunner runs commands through a shell interpreter.
type ExecRunner struct {
	// Interpreter defaults to "sh"; the command string is passed via -c.
	Interpreter string
}

// Run satisfies Runner. A non-zero exit is not an error: the exit code is
// part of the result. Only launch failures return an error.
func (r ExecRunner) Run(ctx context.Context, command string) (Result, error) {
	interpreter := r.Interpreter
	if interpreter == "" {
		interpreter = "sh"
	}

	cmd := exec.CommandContext(ctx, interpreter, "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("%w: %v", ErrLaunchFailed, err)
		}
		// ExitCode reports -1 for signal-terminated processes; keep that
		// sentinel as-is.
		return Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: exitErr.ExitCode(),
		}, nil
	}

	return Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
	}, nil
}
