// Package crdt implements the convergent replicated state substrate backing
// the block tree. State is a last-writer-wins entry map plus an add-only
// ordered root set; every write carries a Stamp (Lamport clock + replica id)
// and merges commute, associate, and are idempotent. Updates are bags of
// stamped entries, so replicas converge regardless of delivery order or
// duplication.
package crdt

import (
	"sort"

	"github.com/google/uuid"
)

// Stamp identifies a single write: the Lamport clock value at which it
// happened and the replica that produced it.
type Stamp struct {
	Clock   uint64 `msgpack:"c"`
	Replica string `msgpack:"r"`
}

// Newer reports whether s supersedes other under the LWW total order:
// higher clock wins, equal clocks fall back to the replica id.
func (s Stamp) Newer(other Stamp) bool {
	if s.Clock != other.Clock {
		return s.Clock > other.Clock
	}
	return s.Replica > other.Replica
}

// StateVector summarises the causal history a replica has incorporated as
// the maximum clock observed per replica id.
type StateVector map[string]uint64

// Covers reports whether the vector already includes the given write.
func (v StateVector) Covers(s Stamp) bool {
	return v[s.Replica] >= s.Clock
}

// Clone returns an independent copy of the vector.
func (v StateVector) Clone() StateVector {
	out := make(StateVector, len(v))
	for replica, clock := range v {
		out[replica] = clock
	}
	return out
}

func (v StateVector) observe(s Stamp) {
	if v[s.Replica] < s.Clock {
		v[s.Replica] = s.Clock
	}
}

type entry struct {
	Stamp   Stamp
	Payload []byte
}

// Doc holds the replicated state for one replica. Doc is not safe for
// concurrent use; callers serialise access (the document store holds it
// behind a single lock).
type Doc struct {
	replica string
	clock   uint64
	entries map[string]entry
	roots   map[string]Stamp
	vector  StateVector
}

// NewDoc creates an empty document with a random replica identity.
func NewDoc() *Doc {
	return NewDocWithReplica(uuid.NewString())
}

// NewDocWithReplica creates an empty document owned by the given replica id.
// Replica ids participate in LWW tie-breaks, so they must be unique across
// replicas that exchange updates.
func NewDocWithReplica(replica string) *Doc {
	return &Doc{
		replica: replica,
		entries: make(map[string]entry),
		roots:   make(map[string]Stamp),
		vector:  make(StateVector),
	}
}

// Replica returns the id this document stamps local writes with.
func (d *Doc) Replica() string { return d.replica }

func (d *Doc) tick() Stamp {
	d.clock++
	s := Stamp{Clock: d.clock, Replica: d.replica}
	d.vector.observe(s)
	return s
}

func (d *Doc) absorb(s Stamp) {
	if s.Clock > d.clock {
		d.clock = s.Clock
	}
	d.vector.observe(s)
}

// Set writes payload under key with a fresh local stamp, replacing any
// previous value for the key.
func (d *Doc) Set(key string, payload []byte) {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	d.entries[key] = entry{Stamp: d.tick(), Payload: buf}
}

// Get returns the payload stored under key.
func (d *Doc) Get(key string) ([]byte, bool) {
	e, ok := d.entries[key]
	if !ok {
		return nil, false
	}
	buf := make([]byte, len(e.Payload))
	copy(buf, e.Payload)
	return buf, true
}

// Len reports the number of live entries.
func (d *Doc) Len() int { return len(d.entries) }

// Keys returns every entry key in lexicographic order.
func (d *Doc) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AddRoot registers id in the root set. Adding an id that is already present
// is a no-op so repeated seeding stays idempotent.
func (d *Doc) AddRoot(id string) {
	if _, ok := d.roots[id]; ok {
		return
	}
	d.roots[id] = d.tick()
}

// Roots returns the root ids ordered by insertion stamp. Concurrent
// insertions order deterministically by clock, replica, then id.
func (d *Doc) Roots() []string {
	ids := make([]string, 0, len(d.roots))
	for id := range d.roots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := d.roots[ids[i]], d.roots[ids[j]]
		if a.Clock != b.Clock {
			return a.Clock < b.Clock
		}
		if a.Replica != b.Replica {
			return a.Replica < b.Replica
		}
		return ids[i] < ids[j]
	})
	return ids
}

// StateVector returns a copy of the causal summary for this document.
func (d *Doc) StateVector() StateVector {
	return d.vector.Clone()
}

func (d *Doc) merge(key string, incoming entry) {
	existing, ok := d.entries[key]
	if !ok || incoming.Stamp.Newer(existing.Stamp) {
		d.entries[key] = incoming
	}
	d.absorb(incoming.Stamp)
}

// mergeRoot keeps the earliest stamp for an id so that replicas converge on
// one ordering even when the same root is added concurrently.
func (d *Doc) mergeRoot(id string, incoming Stamp) {
	existing, ok := d.roots[id]
	if !ok || existing.Newer(incoming) {
		d.roots[id] = incoming
	}
	d.absorb(incoming)
}
