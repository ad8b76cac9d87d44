// Package tx defines the transaction boundary contract used by domain
// services. The pgx-backed implementation lives in
// infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction.
type Manager interface {
	// RunInTransaction commits when fn returns nil and rolls back
	// otherwise. A nested call joins the transaction already carried
	// by ctx instead of opening a new one.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions for query paths.
type ReadOnlyManager interface {
	Manager

	// ReadOnly runs fn in a transaction that rejects writes.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
