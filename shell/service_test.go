package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/float-ritual-stack/float-liner/blocks"
)

type stubRunner struct {
	result Result
	err    error
	calls  int
}

func (s *stubRunner) Run(ctx context.Context, command string) (Result, error) {
	s.calls++
	return s.result, s.err
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func newService(t *testing.T, r Runner) (*Service, *blocks.Document) {
	t.Helper()
	doc := blocks.NewSeeded(1000)
	svc := NewService(doc, WithRunner(r), WithClock(fixedClock(2000)))
	return svc, doc
}

func snapshotBlocks(t *testing.T, doc *blocks.Document) map[string]blocks.Block {
	t.Helper()
	snap, err := doc.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return snap["blocks"].(map[string]blocks.Block)
}

func TestExecuteSuccess(t *testing.T) {
	runner := &stubRunner{result: Result{Stdout: "hello\nworld", ExitCode: 0}}
	svc, doc := newService(t, runner)

	state, err := svc.Execute(context.Background(), "block-1", "echo hello")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(state) == 0 {
		t.Fatalf("Execute returned empty state")
	}

	bm := snapshotBlocks(t, doc)
	invoking := bm["block-1"]
	if invoking.Content != "sh:: echo hello" {
		t.Fatalf("content = %q", invoking.Content)
	}
	if invoking.Type != "sh" {
		t.Fatalf("type = %q", invoking.Type)
	}
	if invoking.Status != blocks.StatusComplete {
		t.Fatalf("status = %q", invoking.Status)
	}
	if invoking.ExitCode == nil || *invoking.ExitCode != 0 {
		t.Fatalf("exit code = %v", invoking.ExitCode)
	}
	if invoking.UpdatedAt != 2000 {
		t.Fatalf("updatedAt = %d", invoking.UpdatedAt)
	}

	if len(invoking.ChildIDs) != 2 {
		t.Fatalf("children = %v", invoking.ChildIDs)
	}
	first := bm[invoking.ChildIDs[0]]
	if first.Content != "hello" || first.Type != "output" {
		t.Fatalf("stdout child = %#v", first)
	}
	if first.ParentID == nil || *first.ParentID != "block-1" {
		t.Fatalf("stdout child parent = %v", first.ParentID)
	}
}

func TestExecuteNonZeroExit(t *testing.T) {
	runner := &stubRunner{result: Result{Stderr: "boom", ExitCode: 3}}
	svc, doc := newService(t, runner)

	if _, err := svc.Execute(context.Background(), "block-1", "false"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	bm := snapshotBlocks(t, doc)
	invoking := bm["block-1"]
	if invoking.Status != blocks.StatusError {
		t.Fatalf("status = %q", invoking.Status)
	}
	if invoking.ExitCode == nil || *invoking.ExitCode != 3 {
		t.Fatalf("exit code = %v", invoking.ExitCode)
	}
	if len(invoking.ChildIDs) != 1 {
		t.Fatalf("children = %v", invoking.ChildIDs)
	}
	errChild := bm[invoking.ChildIDs[0]]
	if errChild.Content != "boom" || errChild.Type != "error" {
		t.Fatalf("stderr child = %#v", errChild)
	}
}

func TestExecuteSignalSentinel(t *testing.T) {
	runner := &stubRunner{result: Result{ExitCode: -1, Stderr: "killed"}}
	svc, doc := newService(t, runner)

	if _, err := svc.Execute(context.Background(), "block-1", "sleep 100"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	invoking := snapshotBlocks(t, doc)["block-1"]
	if invoking.ExitCode == nil || *invoking.ExitCode != -1 {
		t.Fatalf("expected -1 sentinel, got %v", invoking.ExitCode)
	}
	if invoking.Status != blocks.StatusError {
		t.Fatalf("status = %q", invoking.Status)
	}
}

func TestExecuteAppendsAfterExistingChildren(t *testing.T) {
	runner := &stubRunner{result: Result{Stdout: "out", ExitCode: 0}}
	svc, doc := newService(t, runner)

	// Root already has three seeded children; run against it.
	if _, err := svc.Execute(context.Background(), blocks.RootID, "ls"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	invoking := snapshotBlocks(t, doc)[blocks.RootID]
	if len(invoking.ChildIDs) != 4 {
		t.Fatalf("children = %v", invoking.ChildIDs)
	}
	for i, want := range []string{"block-1", "block-2", "block-3"} {
		if invoking.ChildIDs[i] != want {
			t.Fatalf("pre-existing child %d displaced: %v", i, invoking.ChildIDs)
		}
	}
	if invoking.ChildIDs[3] != "root-out-0" {
		t.Fatalf("appended child = %q", invoking.ChildIDs[3])
	}
}

func TestExecutePreservesParent(t *testing.T) {
	runner := &stubRunner{result: Result{Stdout: "x", ExitCode: 0}}
	svc, doc := newService(t, runner)

	// block-1 is parented under root; the rewrite must keep that.
	if _, err := svc.Execute(context.Background(), "block-1", "true"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	invoking := snapshotBlocks(t, doc)["block-1"]
	if invoking.ParentID == nil || *invoking.ParentID != blocks.RootID {
		t.Fatalf("parent = %v", invoking.ParentID)
	}
}

func TestExecuteStdoutAndStderrSubtrees(t *testing.T) {
	runner := &stubRunner{result: Result{Stdout: "o1\no2", Stderr: "e1", ExitCode: 1}}
	svc, doc := newService(t, runner)

	if _, err := svc.Execute(context.Background(), "block-2", "cmd"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	bm := snapshotBlocks(t, doc)
	invoking := bm["block-2"]
	if len(invoking.ChildIDs) != 3 {
		t.Fatalf("children = %v", invoking.ChildIDs)
	}
	if bm[invoking.ChildIDs[0]].Type != "output" || bm[invoking.ChildIDs[2]].Type != "error" {
		t.Fatalf("subtree types wrong: %v", invoking.ChildIDs)
	}
}

func TestExecuteUnknownBlock(t *testing.T) {
	runner := &stubRunner{result: Result{Stdout: "x", ExitCode: 0}}
	svc, doc := newService(t, runner)
	before, _ := doc.FullState()

	_, err := svc.Execute(context.Background(), "missing", "true")
	if !errors.Is(err, blocks.ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}

	after, _ := doc.FullState()
	if string(before) != string(after) {
		t.Fatalf("failed lookup mutated document")
	}
}

func TestExecuteLaunchFailureNoMutation(t *testing.T) {
	runner := &stubRunner{err: ErrLaunchFailed}
	svc, doc := newService(t, runner)
	before, _ := doc.FullState()

	_, err := svc.Execute(context.Background(), "block-1", "definitely-not-a-binary")
	if !errors.Is(err, ErrLaunchFailed) {
		t.Fatalf("expected ErrLaunchFailed, got %v", err)
	}

	after, _ := doc.FullState()
	if string(before) != string(after) {
		t.Fatalf("launch failure mutated document")
	}
	if runner.calls != 1 {
		t.Fatalf("runner called %d times", runner.calls)
	}
}

func TestExecuteBlankOutputAddsNoChildren(t *testing.T) {
	runner := &stubRunner{result: Result{Stdout: "   \n", Stderr: "", ExitCode: 0}}
	svc, doc := newService(t, runner)

	if _, err := svc.Execute(context.Background(), "block-3", "true"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	invoking := snapshotBlocks(t, doc)["block-3"]
	if len(invoking.ChildIDs) != 0 {
		t.Fatalf("blank output produced children: %v", invoking.ChildIDs)
	}
	if invoking.Status != blocks.StatusComplete {
		t.Fatalf("status = %q", invoking.Status)
	}
}
