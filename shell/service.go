package shell

import (
	"context"
	"strings"
	"time"

	"github.com/float-ritual-stack/float-liner/blocks"
	"github.com/float-ritual-stack/float-liner/internal/logging"
	"github.com/float-ritual-stack/float-liner/internal/markdown"
)

// Service orchestrates command execution and ingestion of the output into
// the document.
type Service struct {
	doc    *blocks.Document
	runner Runner
	now    func() time.Time
	log    logging.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRunner swaps the external-process collaborator (tests use a stub).
func WithRunner(r Runner) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger injects the service logger.
func WithLogger(log logging.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService builds an ingestion service over the given document. The
// default runner shells out via "sh -c".
func NewService(doc *blocks.Document, opts ...ServiceOption) *Service {
	s := &Service{
		doc:    doc,
		runner: ExecRunner{},
		now:    time.Now,
		log:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs command, ingests its output under the block identified by
// blockID, rewrites that block with the command's status and exit code, and
// returns the new full document state. The process wait happens before the
// document lock is taken, so long commands never stall other operations.
// Any failing step aborts with no mutation.
func (s *Service) Execute(ctx context.Context, blockID, command string) ([]byte, error) {
	result, err := s.runner.Run(ctx, command)
	if err != nil {
		s.log.Error("shell.execute.launch_failed", "block_id", blockID, "error", err)
		return nil, err
	}

	now := s.now().UnixMilli()

	err = s.doc.Update(func(tx *blocks.Tx) error {
		invoking, err := tx.Block(blockID)
		if err != nil {
			return err
		}

		// Preserve children already hanging off the block; a missing or
		// malformed list just means none.
		childIDs := append([]string(nil), invoking.ChildIDs...)

		if strings.TrimSpace(result.Stdout) != "" {
			parsed := markdown.Build(result.Stdout, blockID+"-out", "output")
			ids, err := blocks.InsertParsed(tx, parsed, blockID, now)
			if err != nil {
				return err
			}
			childIDs = append(childIDs, ids...)
		}

		if strings.TrimSpace(result.Stderr) != "" {
			parsed := markdown.Build(result.Stderr, blockID+"-err", "error")
			ids, err := blocks.InsertParsed(tx, parsed, blockID, now)
			if err != nil {
				return err
			}
			childIDs = append(childIDs, ids...)
		}

		status := blocks.StatusComplete
		if result.ExitCode != 0 {
			status = blocks.StatusError
		}

		parentID := blocks.RootID
		if invoking.ParentID != nil && *invoking.ParentID != "" {
			parentID = *invoking.ParentID
		}

		exitCode := result.ExitCode
		rewritten := blocks.Block{
			ID:        blockID,
			ParentID:  &parentID,
			ChildIDs:  childIDs,
			Content:   "sh:: " + command,
			Type:      "sh",
			Collapsed: false,
			Status:    status,
			ExitCode:  &exitCode,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.PutBlock(rewritten)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("shell.execute.completed",
		"block_id", blockID,
		"exit_code", result.ExitCode,
	)
	return s.doc.FullState()
}
