package blocks

import (
	"fmt"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/float-ritual-stack/float-liner/crdt"
)

// RootID is the id of the seeded root block and the fallback parent for
// re-homed command blocks.
const RootID = "root"

// Document is the shared replicated block tree. Exactly one caller holds its
// lock at a time; every read or mutation is short and in-memory. Mutation
// flows through ApplyUpdate (remote merges) or Update (local transactions).
type Document struct {
	mu  sync.Mutex
	doc *crdt.Doc
}

// Option adjusts document construction.
type Option func(*crdt.Doc) *crdt.Doc

// WithReplica pins the replica identity instead of generating one. Useful in
// tests and for deterministic multi-replica setups.
func WithReplica(id string) Option {
	return func(*crdt.Doc) *crdt.Doc {
		return crdt.NewDocWithReplica(id)
	}
}

func newInner(opts []Option) *crdt.Doc {
	doc := crdt.NewDoc()
	for _, opt := range opts {
		doc = opt(doc)
	}
	return doc
}

// NewEmpty creates a document with no blocks. Used as the hydration target.
func NewEmpty(opts ...Option) *Document {
	return &Document{doc: newInner(opts)}
}

// NewSeeded creates the default fresh document: one root block and three
// ordered children, all stamped with now (milliseconds).
func NewSeeded(now int64, opts ...Option) *Document {
	d := NewEmpty(opts...)

	seedChildren := []string{"block-1", "block-2", "block-3"}
	d.putLocked(Block{
		ID:        RootID,
		ParentID:  nil,
		ChildIDs:  seedChildren,
		Content:   "Root",
		Type:      "text",
		CreatedAt: now,
		UpdatedAt: now,
	})

	contents := []string{
		"Block 1: Hello from float-liner",
		"Block 2: Edit me",
		"Block 3: CRDT magic",
	}
	for i, content := range contents {
		d.putLocked(Block{
			ID:        seedChildren[i],
			ParentID:  ptr(RootID),
			ChildIDs:  []string{},
			Content:   content,
			Type:      "text",
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	d.doc.AddRoot(RootID)
	return d
}

// Hydrate builds a document from a persisted full-state snapshot. The
// snapshot must decode and contain the block map and root list; otherwise an
// error is returned and the caller falls back to a fresh seed.
func Hydrate(snapshot []byte, opts ...Option) (*Document, error) {
	d := NewEmpty(opts...)
	if err := d.doc.ApplyUpdate(snapshot); err != nil {
		return nil, err
	}
	if d.doc.Len() == 0 || len(d.doc.Roots()) == 0 {
		return nil, ErrInvalidSnapshot
	}
	return d, nil
}

// putLocked is only safe during construction, before the document escapes.
func (d *Document) putLocked(b Block) {
	payload, err := msgpack.Marshal(b)
	if err != nil {
		// Block contains nothing msgpack cannot encode.
		panic(fmt.Sprintf("blocks: encode block %q: %v", b.ID, err))
	}
	d.doc.Set(b.ID, payload)
}

// FullState encodes the entire document as an update relative to an empty
// baseline.
func (d *Document) FullState() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.EncodeStateAsUpdate(crdt.StateVector{})
}

// ApplyUpdate merges a remote update and returns the new full state.
// Malformed input returns crdt.ErrMalformedUpdate with no state change.
func (d *Document) ApplyUpdate(update []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.doc.ApplyUpdate(update); err != nil {
		return nil, err
	}
	return d.doc.EncodeStateAsUpdate(crdt.StateVector{})
}

// StateVector returns the encoded causal summary of this document.
func (d *Document) StateVector() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return crdt.EncodeStateVector(d.doc.StateVector())
}

// Diff returns the minimal update the holder of remoteVector is missing.
// Malformed vectors return crdt.ErrMalformedStateVector.
func (d *Document) Diff(remoteVector []byte) ([]byte, error) {
	v, err := crdt.DecodeStateVector(remoteVector)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.EncodeStateAsUpdate(v)
}

// Snapshot returns a read-only JSON projection of the document, shaped as
// {"blocks": {id: block}, "rootIds": [id]}. Debug use only.
func (d *Document) Snapshot() (map[string]any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	blockMap := make(map[string]Block, d.doc.Len())
	for _, id := range d.doc.Keys() {
		b, err := d.decode(id)
		if err != nil {
			return nil, err
		}
		blockMap[id] = b
	}
	return map[string]any{
		"blocks":  blockMap,
		"rootIds": d.doc.Roots(),
	}, nil
}

func (d *Document) decode(id string) (Block, error) {
	payload, ok := d.doc.Get(id)
	if !ok {
		return Block{}, &NotFoundError{ID: id}
	}
	var b Block
	if err := msgpack.Unmarshal(payload, &b); err != nil {
		return Block{}, fmt.Errorf("%w: id=%s: %v", ErrCorruptEntry, id, err)
	}
	return b, nil
}

// Update runs fn with exclusive access to the document through a Tx handle.
// Writes are staged and committed only when fn returns nil, so a failing
// transaction leaves no partial mutation. The lock is released on every
// path.
func (d *Document) Update(fn func(tx *Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx := &Tx{doc: d, staged: make(map[string]Block)}
	if err := fn(tx); err != nil {
		return err
	}

	for _, id := range tx.order {
		d.putLocked(tx.staged[id])
	}
	return nil
}

// Tx is the scoped handle handed to Update callbacks. It overlays staged
// writes on the committed state so a transaction reads its own writes.
type Tx struct {
	doc    *Document
	staged map[string]Block
	order  []string
}

// Block returns the block stored under id, honouring staged writes.
func (tx *Tx) Block(id string) (Block, error) {
	if b, ok := tx.staged[id]; ok {
		return b, nil
	}
	return tx.doc.decode(id)
}

// PutBlock validates and stages a block write. Later writes to the same id
// replace earlier staged ones without changing commit order.
func (tx *Tx) PutBlock(b Block) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("blocks: invalid block %q: %w", b.ID, err)
	}
	if _, ok := tx.staged[b.ID]; !ok {
		tx.order = append(tx.order, b.ID)
	}
	tx.staged[b.ID] = b
	return nil
}

// Roots returns the ordered top-level block ids.
func (tx *Tx) Roots() []string {
	return tx.doc.doc.Roots()
}
