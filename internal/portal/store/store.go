package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: not found")

// Snapshot names. The portal persists exactly three records: the user
// table, the current session (nullable), and the security state blob.
const (
	SnapshotUsers         = "users"
	SnapshotSession       = "session"
	SnapshotSecurityState = "security_state"
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. Persistence here means "state survives reload", not
// a queryable schema: each record is a JSON blob under a fixed name.
type Store interface {
	Snapshots() Snapshots

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it when several snapshots must land together (e.g., a login
	// mutates both the user table and the session).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error, the transaction is rolled back; otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Snapshots interface {
	// Get returns the raw JSON blob stored under name, or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put upserts the blob under name and bumps updated_at.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes the record. Deleting an absent record is not an error.
	Delete(ctx context.Context, name string) error
}
