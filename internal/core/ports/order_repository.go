// Package ports defines the contracts between the dispatch core and its
// infrastructure: transactional repositories, read models and the notifier.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates inside a unit of work.
// Reads through this interface lock the returned rows until the unit of work ends.
type OrderRepository interface {
	// Add persists a new order. Violations of the manifest or booking
	// uniqueness surface as errs.ObjectAlreadyExistError.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. A stale version fails with
	// errs.VersionIsInvalidError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Delete removes an order permanently.
	Delete(ctx context.Context, id kernel.UUID) error

	// Get loads and locks one order.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetMany loads and locks several orders, returned in the order of ids.
	// Unknown ids fail with errs.ObjectNotFoundError.
	GetMany(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error)

	// LockQueue serializes load queue changes until the unit of work ends.
	// Handlers that may rank or unrank an order take it before reading any order.
	LockQueue(ctx context.Context) error

	// GetRanked loads and locks every pending order holding a rank, by rank.
	GetRanked(ctx context.Context) ([]*order.Order, error)

	// BookingTaken reports whether another order already holds key.
	BookingTaken(ctx context.Context, key order.BookingKey, except kernel.UUID) (bool, error)
}

// ManifestLedger remembers every manifest number ever claimed. Numbers are
// never released, not even when the claiming order is deleted.
type ManifestLedger interface {
	// Claim records number for orderID. Claiming a number already held by the
	// same order succeeds; one held by any other order fails with
	// errs.ObjectAlreadyExistError.
	Claim(ctx context.Context, number string, orderID kernel.UUID) error
}
