package blocks

import (
	"errors"
	"fmt"
)

var (
	// ErrBlockNotFound marks lookups for ids absent from the block map.
	ErrBlockNotFound = errors.New("blocks: block not found")

	// ErrInvalidSnapshot marks persisted state that decoded but does not
	// carry the expected document structure. Callers seed a fresh document.
	ErrInvalidSnapshot = errors.New("blocks: snapshot missing document structure")

	// ErrCorruptEntry marks a stored payload that no longer decodes into a
	// Block record.
	ErrCorruptEntry = errors.New("blocks: corrupt block entry")
)

// NotFoundError identifies which block id a lookup missed.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrBlockNotFound.Error()
	}
	return fmt.Sprintf("%s: id=%s", ErrBlockNotFound.Error(), e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrBlockNotFound }
