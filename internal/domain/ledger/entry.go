package ledger

import (
	"opticore/internal/core/entity"
	"opticore/internal/core/id"
)

// Kind classifies a ledger entry. Each ledger defines its own kinds
// (sale, deposit, discount for receivables; in, out, adjust for stock).
type Kind string

// Entry is one immutable row in a ledger history.
//
// Amount is the effective delta actually applied to the balance.
// RequestedAmount is what the caller asked for. They differ only when
// a clamping policy reduced the delta (e.g. a deposit larger than the
// outstanding receivable). Keeping both preserves the invariant
// sum(amount) == cached balance while still recording intent.
type Entry struct {
	entity.EntryBase

	// SubjectID is the balance dimension (store for receivables,
	// product variant for stock)
	SubjectID id.ID `db:"subject_id" json:"subjectId"`

	Kind Kind `db:"kind" json:"kind"`

	Amount          int64 `db:"amount" json:"amount"`
	RequestedAmount int64 `db:"requested_amount" json:"requestedAmount"`

	BalanceBefore int64 `db:"balance_before" json:"balanceBefore"`
	BalanceAfter  int64 `db:"balance_after" json:"balanceAfter"`
}

// NewEntry builds an entry from an append request and the locked balance.
func NewEntry(req AppendRequest, balance, effective int64) Entry {
	return Entry{
		EntryBase:       entity.NewEntryBase(req.RefID, req.RefType, req.Memo, req.Actor),
		SubjectID:       req.SubjectID,
		Kind:            req.Kind,
		Amount:          effective,
		RequestedAmount: req.Delta,
		BalanceBefore:   balance,
		BalanceAfter:    balance + effective,
	}
}

// Clamped reports whether the policy reduced the requested delta.
func (e Entry) Clamped() bool {
	return e.Amount != e.RequestedAmount
}
