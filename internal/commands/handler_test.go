package commands

import (
	"context"
	"errors"
	"testing"
)

type executorFunc func(ctx context.Context, blockID, command string) (string, error)

func (f executorFunc) ExecuteShell(ctx context.Context, blockID, command string) (string, error) {
	return f(ctx, blockID, command)
}

func TestExecuteShellHandlerValidation(t *testing.T) {
	called := false
	h := NewExecuteShellHandler(executorFunc(func(context.Context, string, string) (string, error) {
		called = true
		return "", nil
	}), nil)

	if err := h.Execute(context.Background(), ExecuteShellCommand{}); err == nil {
		t.Fatalf("empty message passed validation")
	}
	if err := h.Execute(context.Background(), ExecuteShellCommand{BlockID: "b", Command: "  "}); err == nil {
		t.Fatalf("blank command passed validation")
	}
	if called {
		t.Fatalf("executor invoked despite validation failure")
	}

	if err := h.Execute(context.Background(), ExecuteShellCommand{BlockID: "b", Command: "ls"}); err != nil {
		t.Fatalf("valid message rejected: %v", err)
	}
	if !called {
		t.Fatalf("executor not invoked")
	}
}

func TestExecuteShellHandlerPropagatesFailure(t *testing.T) {
	boom := errors.New("exec blew up")
	h := NewExecuteShellHandler(executorFunc(func(context.Context, string, string) (string, error) {
		return "", boom
	}), nil)

	err := h.Execute(context.Background(), ExecuteShellCommand{BlockID: "b", Command: "ls"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("wrapped error lost cause: %v", err)
	}
}

type importerFunc func(ctx context.Context, path string) (string, error)

func (f importerFunc) ImportFile(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

func TestImportFileHandler(t *testing.T) {
	var gotPath string
	h := NewImportFileHandler(importerFunc(func(_ context.Context, path string) (string, error) {
		gotPath = path
		return "", nil
	}), nil)

	if err := h.Execute(context.Background(), ImportFileCommand{}); err == nil {
		t.Fatalf("empty path passed validation")
	}
	if err := h.Execute(context.Background(), ImportFileCommand{Path: "notes.md"}); err != nil {
		t.Fatalf("valid message rejected: %v", err)
	}
	if gotPath != "notes.md" {
		t.Fatalf("path = %q", gotPath)
	}
}
