package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func link(name string) reference.Link {
	return reference.Link{ID: kernel.NewUUID(), Name: name}
}

func linkPtr(name string) *reference.Link {
	l := link(name)
	return &l
}

func actor(t *testing.T, name string, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(name+"-id", name, role)
	require.NoError(t, err)
	return a
}

func newPendingOrder(t *testing.T, manifest string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		manifest,
		link("ACME"),
		nil,
		linkPtr("R1"),
		10,
		nil,
		actor(t, "creator", kernel.RoleAdminDeposito),
		baseTime,
	)
	require.NoError(t, err)
	return o
}

func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}
