package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one business transaction. Client code drives Begin, Commit and
// Rollback explicitly; repositories obtained from it share the transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error if no transaction is active.
	Commit(ctx context.Context) error

	// Rollback returns an error if no transaction is active.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository

	ReferenceRepository() ReferenceRepository

	ManifestLedger() ManifestLedger
}
