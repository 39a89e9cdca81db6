package memory_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, manifest string, created time.Time) *order.Order {
	t.Helper()
	actor, err := kernel.NewActor("u-1", "Ana", kernel.RoleAdminDeposito)
	require.NoError(t, err)
	carrier := reference.Link{ID: kernel.NewUUID(), Name: "ACME"}
	route := reference.Link{ID: kernel.NewUUID(), Name: "R-" + manifest}
	o, err := order.NewOrder(kernel.NewUUID(), manifest, carrier, nil, &route, 1, nil, actor, created)
	require.NoError(t, err)
	return o
}

func inTx(t *testing.T, store *memory.Store, fn func(uow ports.UnitOfWork) error) error {
	t.Helper()
	ctx := t.Context()
	uow := memory.NewUnitOfWorkFactory(store).Create()
	require.NoError(t, uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func TestUnitOfWork(t *testing.T) {
	t.Run("should publish changes only on commit", func(t *testing.T) {
		store := memory.NewStore()
		ctx := t.Context()
		o := newOrder(t, "P-1", baseTime)

		uow := memory.NewUnitOfWorkFactory(store).Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.OrderRepository().Add(ctx, o))

		_, err := store.GetOrder(ctx, o.ID())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)

		require.NoError(t, uow.Commit(ctx))
		stored, err := store.GetOrder(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.Version())
	})

	t.Run("should discard changes on rollback", func(t *testing.T) {
		store := memory.NewStore()
		ctx := t.Context()
		o := newOrder(t, "P-1", baseTime)

		uow := memory.NewUnitOfWorkFactory(store).Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.OrderRepository().Add(ctx, o))
		require.NoError(t, uow.ManifestLedger().Claim(ctx, "P-1", o.ID()))
		require.NoError(t, uow.Rollback(ctx))

		_, err := store.GetOrder(ctx, o.ID())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		require.ErrorIs(t, uow.Rollback(ctx), memory.ErrNoActiveTransaction)
	})

	t.Run("should serialize units of work", func(t *testing.T) {
		store := memory.NewStore()
		factory := memory.NewUnitOfWorkFactory(store)

		first := factory.Create()
		require.NoError(t, first.Begin(t.Context()))

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()
		second := factory.Create()
		require.ErrorIs(t, second.Begin(ctx), context.DeadlineExceeded)

		require.NoError(t, first.Commit(t.Context()))
		require.NoError(t, second.Begin(t.Context()))
		require.NoError(t, second.Rollback(t.Context()))
	})

	t.Run("should reject repository use outside a transaction", func(t *testing.T) {
		uow := memory.NewUnitOfWorkFactory(memory.NewStore()).Create()
		_, err := uow.OrderRepository().GetRanked(t.Context())
		require.ErrorIs(t, err, memory.ErrNoActiveTransaction)
		require.ErrorIs(t, uow.OrderRepository().LockQueue(t.Context()), memory.ErrNoActiveTransaction)
	})
}

func TestOrderRepository(t *testing.T) {
	t.Run("should reject stale versions", func(t *testing.T) {
		store := memory.NewStore()
		o := newOrder(t, "P-1", baseTime)
		require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
			return uow.OrderRepository().Add(t.Context(), o)
		}))

		stale, err := store.GetOrder(t.Context(), o.ID())
		require.NoError(t, err)

		require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
			fresh, err := uow.OrderRepository().Get(t.Context(), o.ID())
			require.NoError(t, err)
			require.NoError(t, fresh.PlaceInQueue(1, baseTime))
			return uow.OrderRepository().Update(t.Context(), fresh)
		}))

		err = inTx(t, store, func(uow ports.UnitOfWork) error {
			stale.RemoveGroup(baseTime)
			require.NoError(t, stale.PlaceInQueue(2, baseTime))
			return uow.OrderRepository().Update(t.Context(), stale)
		})
		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})

	t.Run("should enforce manifest and booking uniqueness", func(t *testing.T) {
		store := memory.NewStore()
		o := newOrder(t, "P-1", baseTime)
		require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
			return uow.OrderRepository().Add(t.Context(), o)
		}))

		err := inTx(t, store, func(uow ports.UnitOfWork) error {
			return uow.OrderRepository().Add(t.Context(), newOrder(t, "P-1", baseTime))
		})
		require.ErrorIs(t, err, errs.ErrObjectAlreadyExist)

		require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
			taken, err := uow.OrderRepository().BookingTaken(t.Context(), o.BookingKey(), kernel.NewUUID())
			require.NoError(t, err)
			assert.True(t, taken)

			taken, err = uow.OrderRepository().BookingTaken(t.Context(), o.BookingKey(), o.ID())
			require.NoError(t, err)
			assert.False(t, taken)
			return nil
		}))
	})

	t.Run("should return many orders in the requested order", func(t *testing.T) {
		store := memory.NewStore()
		a, b := newOrder(t, "P-1", baseTime), newOrder(t, "P-2", baseTime)
		require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
			require.NoError(t, uow.OrderRepository().Add(t.Context(), a))
			return uow.OrderRepository().Add(t.Context(), b)
		}))

		require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
			list, err := uow.OrderRepository().GetMany(t.Context(), []kernel.UUID{b.ID(), a.ID()})
			require.NoError(t, err)
			assert.True(t, list[0].IsEqual(b))
			assert.True(t, list[1].IsEqual(a))

			_, err = uow.OrderRepository().GetMany(t.Context(), []kernel.UUID{a.ID(), kernel.NewUUID()})
			require.ErrorIs(t, err, errs.ErrObjectNotFound)
			return nil
		}))
	})
}

func TestReferenceRepository(t *testing.T) {
	store := memory.NewStore()
	ctx := t.Context()
	acme, err := reference.NewReference(kernel.NewUUID(), reference.Carrier, "ACME")
	require.NoError(t, err)

	require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
		return uow.ReferenceRepository().Add(ctx, acme)
	}))

	t.Run("should treat names case-insensitively", func(t *testing.T) {
		dup, err := reference.NewReference(kernel.NewUUID(), reference.Carrier, " acme")
		require.NoError(t, err)
		err = inTx(t, store, func(uow ports.UnitOfWork) error {
			return uow.ReferenceRepository().Add(ctx, dup)
		})
		require.ErrorIs(t, err, errs.ErrObjectAlreadyExist)

		require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
			found, err := uow.ReferenceRepository().FindByName(ctx, reference.Carrier, "Acme ")
			require.NoError(t, err)
			assert.Equal(t, acme.ID(), found.ID())
			return nil
		}))
	})

	t.Run("should scope entries by kind", func(t *testing.T) {
		require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
			_, err := uow.ReferenceRepository().Get(ctx, reference.Route, acme.ID())
			require.ErrorIs(t, err, errs.ErrObjectNotFound)
			return nil
		}))
	})

	t.Run("should list entries by name", func(t *testing.T) {
		zeta, err := reference.NewReference(kernel.NewUUID(), reference.Carrier, "zeta")
		require.NoError(t, err)
		beta, err := reference.NewReference(kernel.NewUUID(), reference.Carrier, "Beta")
		require.NoError(t, err)
		beta.Deactivate()
		require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
			require.NoError(t, uow.ReferenceRepository().Add(ctx, zeta))
			return uow.ReferenceRepository().Add(ctx, beta)
		}))

		all, err := store.ListReferences(ctx, reference.Carrier, false)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"ACME", "Beta", "zeta"}, []string{all[0].Name(), all[1].Name(), all[2].Name()})

		active, err := store.ListReferences(ctx, reference.Carrier, true)
		require.NoError(t, err)
		assert.Len(t, active, 2)
	})
}

func TestManifestLedger(t *testing.T) {
	store := memory.NewStore()
	owner, other := kernel.NewUUID(), kernel.NewUUID()

	require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
		return uow.ManifestLedger().Claim(t.Context(), "P-1", owner)
	}))
	require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
		return uow.ManifestLedger().Claim(t.Context(), "P-1", owner)
	}))
	err := inTx(t, store, func(uow ports.UnitOfWork) error {
		return uow.ManifestLedger().Claim(t.Context(), "P-1", other)
	})
	require.ErrorIs(t, err, errs.ErrObjectAlreadyExist)
}

func TestStore_ListOrders(t *testing.T) {
	store := memory.NewStore()
	ctx := t.Context()
	old := newOrder(t, "P-1", baseTime)
	mid := newOrder(t, "P-2", baseTime.Add(time.Hour))
	recent := newOrder(t, "P-3", baseTime.AddDate(0, 0, 1))
	require.NoError(t, mid.PlaceInQueue(1, baseTime))

	require.NoError(t, inTx(t, store, func(uow ports.UnitOfWork) error {
		for _, o := range []*order.Order{old, mid, recent} {
			require.NoError(t, uow.OrderRepository().Add(ctx, o))
		}
		return nil
	}))

	ids := func(list []*order.Order) []kernel.UUID {
		out := make([]kernel.UUID, 0, len(list))
		for _, o := range list {
			out = append(out, o.ID())
		}
		return out
	}

	t.Run("should list newest first by default", func(t *testing.T) {
		list, err := store.ListOrders(ctx, ports.OrderFilter{})
		require.NoError(t, err)
		assert.Equal(t, []kernel.UUID{recent.ID(), mid.ID(), old.ID()}, ids(list))
	})

	t.Run("should filter by rank", func(t *testing.T) {
		unranked := false
		list, err := store.ListOrders(ctx, ports.OrderFilter{Ranked: &unranked, Sort: ports.SortOldestFirst})
		require.NoError(t, err)
		assert.Equal(t, []kernel.UUID{old.ID(), recent.ID()}, ids(list))
	})

	t.Run("should filter by creation window", func(t *testing.T) {
		from, before := baseTime.Add(-time.Hour), baseTime.Add(2*time.Hour)
		list, err := store.ListOrders(ctx, ports.OrderFilter{CreatedFrom: &from, CreatedBefore: &before})
		require.NoError(t, err)
		assert.Equal(t, []kernel.UUID{mid.ID(), old.ID()}, ids(list))
	})
}
