package memory

import (
	"context"
	"errors"

	"dispatch/internal/core/ports"
)

var ErrNoActiveTransaction = errors.New("memory: no active transaction")

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork holds a private copy of the store between Begin and Commit.
// Begin blocks while another unit of work is active.
type UnitOfWork struct {
	store *Store
	work  *state
}

func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.work != nil {
		return nil
	}
	if err := uow.store.acquire(ctx); err != nil {
		return err
	}
	work := uow.store.snapshot()
	uow.work = &work
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if uow.work == nil {
		return ErrNoActiveTransaction
	}
	uow.store.replace(*uow.work)
	uow.end()
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if uow.work == nil {
		return ErrNoActiveTransaction
	}
	uow.end()
	return nil
}

func (uow *UnitOfWork) end() {
	uow.work = nil
	uow.store.release()
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: uow}
}

func (uow *UnitOfWork) ReferenceRepository() ports.ReferenceRepository {
	return &referenceRepository{uow: uow}
}

func (uow *UnitOfWork) ManifestLedger() ports.ManifestLedger {
	return &manifestLedger{uow: uow}
}

func (uow *UnitOfWork) current() (*state, error) {
	if uow.work == nil {
		return nil, ErrNoActiveTransaction
	}
	return uow.work, nil
}
