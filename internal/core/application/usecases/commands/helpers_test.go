package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/pkg/clock"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func newClock() *clock.Manual {
	return clock.NewManual(baseTime)
}

func newActor(t *testing.T, name string, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(name+"-id", name, role)
	require.NoError(t, err)
	return a
}

func newRef(t *testing.T, kind reference.Kind, name string) *reference.Reference {
	t.Helper()
	r, err := reference.NewReference(kernel.NewUUID(), kind, name)
	require.NoError(t, err)
	return r
}

func newOrder(t *testing.T, manifest string) *order.Order {
	t.Helper()
	route := newRef(t, reference.Route, "Ruta "+manifest).Link()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		manifest,
		newRef(t, reference.Carrier, "Andreani").Link(),
		nil,
		&route,
		5,
		nil,
		newActor(t, "Ana", kernel.RoleAdminDeposito),
		baseTime,
	)
	require.NoError(t, err)
	return o
}

func rankedOrder(t *testing.T, manifest string, rank int) *order.Order {
	t.Helper()
	o := newOrder(t, manifest)
	require.NoError(t, o.PlaceInQueue(rank, baseTime))
	return o
}
