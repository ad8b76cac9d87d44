// Package entity provides core domain entities.
package entity

import (
	"time"

	"opticore/internal/core/id"
)

// EntryBase contains common fields for all ledger entries.
// Entries are immutable. A correction is a new entry with the opposite
// sign, never an update or delete of an existing row.
type EntryBase struct {
	// ID is unique identifier for this entry (UUIDv7, time-ordered)
	ID id.ID `db:"id" json:"id"`

	// RefID is the business document that produced this entry (order, deposit slip)
	RefID *id.ID `db:"ref_id" json:"refId,omitempty"`

	// RefType is the document type (e.g. "Order", "Deposit", "Adjustment")
	RefType string `db:"ref_type" json:"refType,omitempty"`

	// Memo is a free-form reason. Required for discount entries.
	Memo string `db:"memo" json:"memo,omitempty"`

	// Actor records who performed the mutation
	Actor string `db:"actor" json:"actor"`

	// CreatedAt is when the entry was appended
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewEntryBase creates a new entry base with generated ID.
func NewEntryBase(refID *id.ID, refType, memo, actor string) EntryBase {
	return EntryBase{
		ID:        id.New(),
		RefID:     refID,
		RefType:   refType,
		Memo:      memo,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	}
}
