package ledger

import (
	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
)

// ClampAtZero reduces a negative delta so the balance never drops
// below zero. Used by the receivables ledger: a deposit larger than
// the outstanding amount settles the debt exactly, it does not create
// a credit. The requested amount is still recorded on the entry.
type ClampAtZero struct{}

func (ClampAtZero) Apply(_ id.ID, _ Kind, balance, delta int64) (int64, error) {
	if balance+delta < 0 {
		return -balance, nil
	}
	return delta, nil
}

// RejectBelowZero refuses any delta that would take the balance
// negative, except for exempt kinds. Used by the stock ledger:
// a sale cannot oversell, but a manual stocktake adjustment may
// correct a miscounted balance downward past zero.
type RejectBelowZero struct {
	ExemptKinds map[Kind]bool
}

func (p RejectBelowZero) Apply(subjectID id.ID, kind Kind, balance, delta int64) (int64, error) {
	if balance+delta < 0 && !p.ExemptKinds[kind] {
		return 0, apperror.NewInsufficientStock(subjectID.String(), -delta, balance)
	}
	return delta, nil
}
