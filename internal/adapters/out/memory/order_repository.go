package memory

import (
	"context"
	"slices"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	st, err := r.uow.current()
	if err != nil {
		return err
	}
	if _, exists := st.orders[aggregate.ID()]; exists {
		return errs.NewObjectAlreadyExistError("order", aggregate.ID())
	}

	snap := aggregate.Snapshot()
	snap.Version = 1
	if err = checkUnique(st, snap); err != nil {
		return err
	}

	st.orders[snap.ID] = snap
	aggregate.MarkPersisted(snap.Version)
	return nil
}

func (r *orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	st, err := r.uow.current()
	if err != nil {
		return err
	}
	stored, exists := st.orders[aggregate.ID()]
	if !exists {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}
	if stored.Version != aggregate.Version() {
		return errs.NewVersionIsInvalidError("order", stored.Version)
	}

	snap := aggregate.Snapshot()
	snap.Version = stored.Version + 1
	if err = checkUnique(st, snap); err != nil {
		return err
	}

	st.orders[snap.ID] = snap
	aggregate.MarkPersisted(snap.Version)
	return nil
}

func (r *orderRepository) Delete(_ context.Context, id kernel.UUID) error {
	st, err := r.uow.current()
	if err != nil {
		return err
	}
	if _, exists := st.orders[id]; !exists {
		return errs.NewObjectNotFoundError("order", id)
	}
	delete(st.orders, id)
	return nil
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	st, err := r.uow.current()
	if err != nil {
		return nil, err
	}
	return getOrder(*st, id)
}

func (r *orderRepository) GetMany(_ context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	st, err := r.uow.current()
	if err != nil {
		return nil, err
	}

	list := make([]*order.Order, 0, len(ids))
	for _, id := range ids {
		o, err := getOrder(*st, id)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, nil
}

// LockQueue only checks the unit of work is open. The store mutex already
// serializes units of work.
func (r *orderRepository) LockQueue(_ context.Context) error {
	_, err := r.uow.current()
	return err
}

func (r *orderRepository) GetRanked(_ context.Context) ([]*order.Order, error) {
	st, err := r.uow.current()
	if err != nil {
		return nil, err
	}

	ranked := make([]order.Snapshot, 0)
	for _, snap := range st.orders {
		if snap.Status == order.Pending && snap.Rank != nil {
			ranked = append(ranked, snap)
		}
	}
	slices.SortFunc(ranked, comparer(ports.SortByRank))
	return restoreAll(ranked)
}

func (r *orderRepository) BookingTaken(_ context.Context, key order.BookingKey, except kernel.UUID) (bool, error) {
	st, err := r.uow.current()
	if err != nil {
		return false, err
	}
	return bookingTaken(st, key, except), nil
}

// checkUnique mirrors the unique indexes of the relational schema.
func checkUnique(st *state, snap order.Snapshot) error {
	for id, other := range st.orders {
		if id != snap.ID && other.ManifestNumber == snap.ManifestNumber {
			return errs.NewObjectAlreadyExistError("manifest number", snap.ManifestNumber)
		}
	}
	key := snap.BookingKey()
	if key.IsComplete() && bookingTaken(st, key, snap.ID) {
		return errs.NewObjectAlreadyExistError("booking", key.String())
	}
	return nil
}

func bookingTaken(st *state, key order.BookingKey, except kernel.UUID) bool {
	for id, other := range st.orders {
		if id != except && other.BookingKey() == key {
			return true
		}
	}
	return false
}
