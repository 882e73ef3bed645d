// Package liner is a local-first, mergeable outline store. A document is a
// tree of blocks kept in a conflict-free replicated map, so concurrent
// edits from different replicas always merge to the same state. The facade
// exposes the document through text-encoded boundary operations suitable
// for transports that only move strings.
package liner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/float-ritual-stack/float-liner/blocks"
	"github.com/float-ritual-stack/float-liner/internal/commands"
	"github.com/float-ritual-stack/float-liner/internal/logging"
	"github.com/float-ritual-stack/float-liner/internal/markdown"
	"github.com/float-ritual-stack/float-liner/internal/wire"
	"github.com/float-ritual-stack/float-liner/shell"
	"github.com/float-ritual-stack/float-liner/store"
)

// App is the top level module facade wiring the document, the shell
// ingestion service, and the snapshot store.
type App struct {
	cfg   Config
	log   logging.Logger
	doc   *blocks.Document
	store *store.Store
	shell *shell.Service
	now   func() time.Time

	shellHandler  *commands.ExecuteShellHandler
	importHandler *commands.ImportFileHandler
}

// Option overrides a collaborator during construction.
type Option func(*settings)

type settings struct {
	logger logging.Logger
	runner shell.Runner
	now    func() time.Time
}

// WithLogger replaces the logger built from Config.Logging.
func WithLogger(log logging.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithRunner replaces the process runner (tests use a stub).
func WithRunner(r shell.Runner) Option {
	return func(s *settings) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds an App from cfg. Startup loads and hydrates the snapshot; an
// absent, unreadable, or structurally invalid snapshot falls back to a
// fresh seeded document with a warning. Startup never fails on snapshot
// content, only on misconfiguration.
func New(cfg Config, opts ...Option) (*App, error) {
	cfg = cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}

	log := s.logger
	if log == nil {
		provider, err := logging.NewProvider(logging.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, err
		}
		log = logging.ModuleLogger(provider, "liner")
	}

	snapshots := store.New(cfg.SnapshotPath)

	var docOpts []blocks.Option
	if cfg.Replica != "" {
		docOpts = append(docOpts, blocks.WithReplica(cfg.Replica))
	}

	doc := hydrateOrSeed(snapshots, log, s.now, docOpts)

	runner := s.runner
	if runner == nil {
		runner = shell.ExecRunner{Interpreter: cfg.Shell.Interpreter}
	}

	app := &App{
		cfg:   cfg,
		log:   log,
		doc:   doc,
		store: snapshots,
		now:   s.now,
		shell: shell.NewService(doc,
			shell.WithRunner(runner),
			shell.WithClock(s.now),
			shell.WithLogger(log),
		),
	}

	var shellOpts []commands.HandlerOption[commands.ExecuteShellCommand]
	var importOpts []commands.HandlerOption[commands.ImportFileCommand]
	if cfg.Shell.Timeout > 0 {
		shellOpts = append(shellOpts, commands.WithTimeout[commands.ExecuteShellCommand](cfg.Shell.Timeout))
		importOpts = append(importOpts, commands.WithTimeout[commands.ImportFileCommand](cfg.Shell.Timeout))
	}
	app.shellHandler = commands.NewExecuteShellHandler(app, log, shellOpts...)
	app.importHandler = commands.NewImportFileHandler(app, log, importOpts...)

	return app, nil
}

func hydrateOrSeed(snapshots *store.Store, log logging.Logger, now func() time.Time, docOpts []blocks.Option) *blocks.Document {
	data, err := snapshots.Load()
	if err != nil {
		if !errors.Is(err, store.ErrNotExist) {
			log.Warn("startup.snapshot_unreadable", "path", snapshots.Path(), "error", err)
		}
		return blocks.NewSeeded(now().UnixMilli(), docOpts...)
	}

	doc, err := blocks.Hydrate(data, docOpts...)
	if err != nil {
		log.Warn("startup.snapshot_invalid", "path", snapshots.Path(), "error", err)
		return blocks.NewSeeded(now().UnixMilli(), docOpts...)
	}

	log.Debug("startup.snapshot_loaded", "path", snapshots.Path(), "bytes", len(data))
	return doc
}

// Document exposes the underlying document for advanced integrations.
func (a *App) Document() *blocks.Document { return a.doc }

// ShellHandler returns the validated dispatch path for shell commands.
func (a *App) ShellHandler() *commands.ExecuteShellHandler { return a.shellHandler }

// ImportHandler returns the validated dispatch path for file imports.
func (a *App) ImportHandler() *commands.ImportFileHandler { return a.importHandler }

// InitialState returns the full document state, text encoded.
func (a *App) InitialState() (string, error) {
	state, err := a.doc.FullState()
	if err != nil {
		return "", err
	}
	return wire.Encode(state), nil
}

// ApplyUpdate merges a text-encoded remote update and returns the new full
// state. Decode and merge failures surface without mutating the document.
func (a *App) ApplyUpdate(update string) (string, error) {
	raw, err := wire.Decode(update)
	if err != nil {
		return "", err
	}
	state, err := a.doc.ApplyUpdate(raw)
	if err != nil {
		return "", err
	}
	return wire.Encode(state), nil
}

// StateJSON returns the document as a plain structure for UI consumption:
// a block map plus the ordered root ids.
func (a *App) StateJSON() (map[string]any, error) {
	return a.doc.Snapshot()
}

// StateVector returns this replica's version vector, text encoded.
func (a *App) StateVector() (string, error) {
	vector, err := a.doc.StateVector()
	if err != nil {
		return "", err
	}
	return wire.Encode(vector), nil
}

// Diff returns the update carrying everything the remote vector has not
// seen, text encoded.
func (a *App) Diff(stateVector string) (string, error) {
	raw, err := wire.Decode(stateVector)
	if err != nil {
		return "", err
	}
	diff, err := a.doc.Diff(raw)
	if err != nil {
		return "", err
	}
	return wire.Encode(diff), nil
}

// Save persists the current full state to the snapshot file and returns
// the path written.
func (a *App) Save() (string, error) {
	state, err := a.doc.FullState()
	if err != nil {
		return "", err
	}
	if err := a.store.Save(state); err != nil {
		return "", err
	}
	a.log.Info("snapshot.saved", "path", a.store.Path(), "bytes", len(state))
	return a.store.Path(), nil
}

// ExecuteShell runs command on behalf of blockID, ingests the output under
// it, and returns the new full state, text encoded.
func (a *App) ExecuteShell(ctx context.Context, blockID, command string) (string, error) {
	state, err := a.shell.Execute(ctx, blockID, command)
	if err != nil {
		return "", err
	}
	return wire.Encode(state), nil
}

// ImportFile ingests a markdown file: frontmatter is stripped, the body is
// parsed into a block tree, and the resulting roots are appended under the
// document root. Returns the new full state, text encoded.
func (a *App) ImportFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("liner: read import file %s: %w", path, err)
	}

	meta, body, err := markdown.ParseFrontMatter(source)
	if err != nil {
		return "", fmt.Errorf("liner: parse frontmatter %s: %w", path, err)
	}

	parsed := markdown.Build(string(body), importBaseID(path), "text")

	now := a.now().UnixMilli()
	err = a.doc.Update(func(tx *blocks.Tx) error {
		root, err := tx.Block(blocks.RootID)
		if err != nil {
			return err
		}
		ids, err := blocks.InsertParsed(tx, parsed, blocks.RootID, now)
		if err != nil {
			return err
		}
		root.ChildIDs = append(append([]string(nil), root.ChildIDs...), ids...)
		root.UpdatedAt = now
		return tx.PutBlock(root)
	})
	if err != nil {
		return "", err
	}

	a.log.Info("markdown.imported",
		"path", path,
		"title", meta.Title,
		"blocks", len(parsed),
	)

	state, err := a.doc.FullState()
	if err != nil {
		return "", err
	}
	return wire.Encode(state), nil
}

// importBaseID derives the id prefix for imported blocks from the file
// name, normalized to a slug. Unslugifiable names fall back to "import".
func importBaseID(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	normalized, err := slug.Normalize(name)
	if err != nil || normalized == "" {
		return "import"
	}
	return normalized
}
