// Package commands contains the operations that change dispatch state.
// Every handler validates its command, runs inside one unit of work and
// broadcasts the touched orders only after a successful commit.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ReferenceRepoFactory provides access to the registries within a transaction.
	ReferenceRepoFactory interface {
		ReferenceRepository() ports.ReferenceRepository
	}

	// ManifestLedgerFactory provides access to the manifest ledger within a transaction.
	ManifestLedgerFactory interface {
		ManifestLedger() ports.ManifestLedger
	}

	// OrderUoW manages transactions that only touch orders, such as queue moves.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// ReferenceUoW manages transactions that only touch the registries.
	ReferenceUoW interface {
		TxManager
		ReferenceRepoFactory
	}

	// ReferenceUoWFactory creates new registry unit of work instances.
	ReferenceUoWFactory interface {
		Create() ReferenceUoW
	}

	// UoW spans orders, registries and the manifest ledger.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   refs := uow.ReferenceRepository()
	//   orders := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		ReferenceRepoFactory
		ManifestLedgerFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
