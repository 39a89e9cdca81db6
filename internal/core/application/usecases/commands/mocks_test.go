package commands_test

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, ids)
	list, _ := args.Get(0).([]*order.Order)
	return list, args.Error(1)
}

func (m *MockOrderRepository) LockQueue(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockOrderRepository) GetRanked(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*order.Order)
	return list, args.Error(1)
}

func (m *MockOrderRepository) BookingTaken(ctx context.Context, key order.BookingKey, except kernel.UUID) (bool, error) {
	args := m.Called(ctx, key, except)
	return args.Bool(0), args.Error(1)
}

type MockReferenceRepository struct{ mock.Mock }

func (m *MockReferenceRepository) Add(ctx context.Context, r *reference.Reference) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReferenceRepository) Update(ctx context.Context, r *reference.Reference) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReferenceRepository) Get(ctx context.Context, kind reference.Kind, id kernel.UUID) (*reference.Reference, error) {
	args := m.Called(ctx, kind, id)
	r, _ := args.Get(0).(*reference.Reference)
	return r, args.Error(1)
}

func (m *MockReferenceRepository) FindByName(ctx context.Context, kind reference.Kind, name string) (*reference.Reference, error) {
	args := m.Called(ctx, kind, name)
	r, _ := args.Get(0).(*reference.Reference)
	return r, args.Error(1)
}

type MockManifestLedger struct{ mock.Mock }

func (m *MockManifestLedger) Claim(ctx context.Context, number string, orderID kernel.UUID) error {
	args := m.Called(ctx, number, orderID)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ReferenceRepository() ports.ReferenceRepository {
	args := m.Called()
	return args.Get(0).(ports.ReferenceRepository)
}

func (m *MockUoW) ManifestLedger() ports.ManifestLedger {
	args := m.Called()
	return args.Get(0).(ports.ManifestLedger)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, event ports.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func eventOfType(kind ports.EventType) any {
	return mock.MatchedBy(func(e ports.OrderEvent) bool { return e.Type == kind })
}
