package crdt

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrMalformedUpdate signals an update payload that could not be decoded.
	// The document is left untouched.
	ErrMalformedUpdate = errors.New("crdt: malformed update")

	// ErrMalformedStateVector signals a state vector that could not be decoded.
	ErrMalformedStateVector = errors.New("crdt: malformed state vector")
)

type wireEntry struct {
	Key     string `msgpack:"k"`
	Clock   uint64 `msgpack:"c"`
	Replica string `msgpack:"r"`
	Payload []byte `msgpack:"p"`
}

type wireRoot struct {
	ID      string `msgpack:"i"`
	Clock   uint64 `msgpack:"c"`
	Replica string `msgpack:"r"`
}

type wireUpdate struct {
	Blocks []wireEntry `msgpack:"b"`
	Roots  []wireRoot  `msgpack:"t"`
}

// EncodeStateAsUpdate encodes every write the remote vector has not yet
// incorporated. An empty vector yields the full document state.
func (d *Doc) EncodeStateAsUpdate(remote StateVector) ([]byte, error) {
	var upd wireUpdate
	for _, key := range d.Keys() {
		e := d.entries[key]
		if remote.Covers(e.Stamp) {
			continue
		}
		upd.Blocks = append(upd.Blocks, wireEntry{
			Key:     key,
			Clock:   e.Stamp.Clock,
			Replica: e.Stamp.Replica,
			Payload: e.Payload,
		})
	}
	for _, id := range d.Roots() {
		s := d.roots[id]
		if remote.Covers(s) {
			continue
		}
		upd.Roots = append(upd.Roots, wireRoot{ID: id, Clock: s.Clock, Replica: s.Replica})
	}

	out, err := msgpack.Marshal(upd)
	if err != nil {
		return nil, fmt.Errorf("crdt: encode update: %w", err)
	}
	return out, nil
}

// ApplyUpdate merges the encoded update into the document. Malformed input
// returns ErrMalformedUpdate with no state change; duplicate or stale writes
// are absorbed without effect.
func (d *Doc) ApplyUpdate(update []byte) error {
	var upd wireUpdate
	if err := msgpack.Unmarshal(update, &upd); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedUpdate, err)
	}

	for _, we := range upd.Blocks {
		d.merge(we.Key, entry{
			Stamp:   Stamp{Clock: we.Clock, Replica: we.Replica},
			Payload: we.Payload,
		})
	}
	for _, wr := range upd.Roots {
		d.mergeRoot(wr.ID, Stamp{Clock: wr.Clock, Replica: wr.Replica})
	}
	return nil
}

// EncodeStateVector serialises the vector for exchange with another replica.
func EncodeStateVector(v StateVector) ([]byte, error) {
	out, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("crdt: encode state vector: %w", err)
	}
	return out, nil
}

// DecodeStateVector parses a vector produced by EncodeStateVector.
func DecodeStateVector(data []byte) (StateVector, error) {
	var v StateVector
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStateVector, err)
	}
	if v == nil {
		v = make(StateVector)
	}
	return v, nil
}
