// Package blocks implements the replicated block tree: the Block record, the
// Document store wrapping the CRDT substrate behind a single lock, and the
// insertion path that materializes parsed descriptor trees.
package blocks

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Status values recorded on command blocks.
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
	StatusError    = "error"
)

// Block is the atomic content unit of the tree. ChildIDs is the
// authoritative hierarchy source; ParentID is the back reference (nil for
// roots). Status and ExitCode are only present on command blocks. The field
// names on the wire match the persisted document schema.
type Block struct {
	ID        string   `json:"id" msgpack:"id"`
	ParentID  *string  `json:"parentId" msgpack:"parentId"`
	ChildIDs  []string `json:"childIds" msgpack:"childIds"`
	Content   string   `json:"content" msgpack:"content"`
	Type      string   `json:"type" msgpack:"type"`
	Collapsed bool     `json:"collapsed" msgpack:"collapsed"`
	Status    string   `json:"status,omitempty" msgpack:"status,omitempty"`
	ExitCode  *int     `json:"exitCode,omitempty" msgpack:"exitCode,omitempty"`
	CreatedAt int64    `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt int64    `json:"updatedAt" msgpack:"updatedAt"`
}

// Validate enforces the required shape at construction time: id and type are
// mandatory, status is constrained to the command-block enum when set.
func (b Block) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.ID, validation.Required),
		validation.Field(&b.Type, validation.Required),
		validation.Field(&b.Status, validation.In(StatusPending, StatusComplete, StatusError)),
	)
}

// IsRoot reports whether the block carries no parent reference.
func (b Block) IsRoot() bool { return b.ParentID == nil }

func ptr[T any](v T) *T { return &v }
