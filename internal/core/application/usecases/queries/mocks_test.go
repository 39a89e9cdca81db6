package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) GetOrder(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderReader) ListOrders(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]*order.Order)
	return list, args.Error(1)
}

type MockReferenceReader struct {
	mock.Mock
}

func (m *MockReferenceReader) ListReferences(
	ctx context.Context,
	kind reference.Kind,
	activeOnly bool,
) ([]*reference.Reference, error) {
	args := m.Called(ctx, kind, activeOnly)
	list, _ := args.Get(0).([]*reference.Reference)
	return list, args.Error(1)
}

var baseTime = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func newCarrier(t *testing.T, name string) *reference.Reference {
	t.Helper()
	r, err := reference.NewReference(kernel.NewUUID(), reference.Carrier, name)
	require.NoError(t, err)
	return r
}

func newOrder(t *testing.T, carrier *reference.Reference, route string, delivery time.Time) *order.Order {
	t.Helper()
	actor, err := kernel.NewActor("u-1", "Ana", kernel.RoleAdminDeposito)
	require.NoError(t, err)
	link := reference.Link{ID: kernel.NewUUID(), Name: route}
	o, err := order.NewOrder(kernel.NewUUID(), "M-"+route, carrier.Link(), nil, &link, 1, &delivery, actor, baseTime)
	require.NoError(t, err)
	return o
}
