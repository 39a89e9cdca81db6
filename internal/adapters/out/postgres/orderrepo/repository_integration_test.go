package orderrepo_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite runs the order repository, reader and
// ledger against a migrated PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	reader     *orderrepo.GormOrderReader
	tracker    *MockAggregateTracker
	now        time.Time
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, sqlDB, err := postgres_adapter.Open(connStr, postgres_adapter.PoolConfig{}, logger)
	suite.Require().NoError(err)
	suite.db = db

	migrator, err := postgres_adapter.NewMigrator(sqlDB, logger)
	suite.Require().NoError(err)
	suite.Require().NoError(migrator.Up(ctx))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, manifest_numbers").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Return()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
	suite.reader = orderrepo.NewGormOrderReader(suite.db)
	suite.now = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(manifest string, carrier kernel.UUID, created time.Time) *order.Order {
	actor, err := kernel.NewActor("u-1", "Ana", kernel.RoleAdminDeposito)
	suite.Require().NoError(err)
	route := reference.Link{ID: kernel.NewUUID(), Name: "R-" + manifest}
	o, err := order.NewOrder(
		kernel.NewUUID(), manifest, reference.Link{ID: carrier, Name: "ACME"},
		nil, &route, 3, nil, actor, created,
	)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_RoundTripsEveryField() {
	ctx := context.Background()
	o := suite.newOrder("P-1", kernel.NewUUID(), suite.now)
	zone := reference.Link{ID: kernel.NewUUID(), Name: "Norte"}
	suite.Require().NoError(o.Revise(order.Revision{Zone: &zone}, suite.now))
	suite.Require().NoError(o.PlaceInQueue(1, suite.now))

	suite.Require().NoError(suite.repository.Add(ctx, o))
	suite.Equal(int64(1), o.Version())

	stored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(o.ManifestNumber(), stored.ManifestNumber())
	suite.Equal(o.Carrier(), stored.Carrier())
	suite.Equal(o.Zone(), stored.Zone())
	suite.Equal(o.Route(), stored.Route())
	suite.Nil(stored.Group())
	suite.Equal(order.StatePending, stored.State())
	suite.Equal(1, *stored.Rank())
	suite.Equal(o.BookingKey(), stored.BookingKey())
	suite.True(o.CreatedAt().Equal(stored.CreatedAt()))
	suite.Equal(int64(1), stored.Version())
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", o.ID(), o)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateManifest() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder("P-1", kernel.NewUUID(), suite.now)))

	err := suite.repository.Add(ctx, suite.newOrder("P-1", kernel.NewUUID(), suite.now))
	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExist)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_RejectsStaleVersion() {
	ctx := context.Background()
	o := suite.newOrder("P-1", kernel.NewUUID(), suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	stale, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(o.PlaceInQueue(1, suite.now))
	suite.Require().NoError(suite.repository.Update(ctx, o))
	suite.Equal(int64(2), o.Version())

	suite.Require().NoError(stale.PlaceInQueue(2, suite.now))
	suite.Require().ErrorIs(suite.repository.Update(ctx, stale), errs.ErrVersionIsInvalid)

	missing := suite.newOrder("P-2", kernel.NewUUID(), suite.now)
	suite.Require().ErrorIs(suite.repository.Update(ctx, missing), errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ClearsNullableColumns() {
	ctx := context.Background()
	o := suite.newOrder("P-1", kernel.NewUUID(), suite.now)
	suite.Require().NoError(o.PlaceInQueue(1, suite.now))
	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.True(o.LeaveQueue(suite.now))
	suite.Require().NoError(o.Revise(order.Revision{ClearRoute: true}, suite.now))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	stored, err := suite.reader.GetOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Nil(stored.Rank())
	suite.Nil(stored.Route())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetMany_KeepsRequestedOrder() {
	ctx := context.Background()
	a := suite.newOrder("P-1", kernel.NewUUID(), suite.now)
	b := suite.newOrder("P-2", kernel.NewUUID(), suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, a))
	suite.Require().NoError(suite.repository.Add(ctx, b))

	list, err := suite.repository.GetMany(ctx, []kernel.UUID{b.ID(), a.ID()})
	suite.Require().NoError(err)
	suite.Require().Len(list, 2)
	suite.True(list[0].IsEqual(b))
	suite.True(list[1].IsEqual(a))

	_, err = suite.repository.GetMany(ctx, []kernel.UUID{a.ID(), kernel.NewUUID()})
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetRanked_ReturnsQueueByRank() {
	ctx := context.Background()
	first := suite.newOrder("P-1", kernel.NewUUID(), suite.now)
	second := suite.newOrder("P-2", kernel.NewUUID(), suite.now)
	loose := suite.newOrder("P-3", kernel.NewUUID(), suite.now)
	suite.Require().NoError(second.PlaceInQueue(2, suite.now))
	suite.Require().NoError(first.PlaceInQueue(1, suite.now))
	for _, o := range []*order.Order{second, loose, first} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	err := suite.db.Transaction(func(tx *gorm.DB) error {
		ranked, err := orderrepo.NewGormOrderRepository(tx, suite.tracker).GetRanked(ctx)
		suite.Require().NoError(err)
		suite.Require().Len(ranked, 2)
		suite.True(ranked[0].IsEqual(first))
		suite.True(ranked[1].IsEqual(second))
		return nil
	})
	suite.Require().NoError(err)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestLockQueue_SerializesQueueChanges() {
	ctx := context.Background()
	x := suite.newOrder("P-1", kernel.NewUUID(), suite.now)
	y := suite.newOrder("P-2", kernel.NewUUID(), suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, x))
	suite.Require().NoError(suite.repository.Add(ctx, y))

	held := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- suite.db.Transaction(func(tx *gorm.DB) error {
			repo := orderrepo.NewGormOrderRepository(tx, suite.tracker)
			if err := repo.LockQueue(ctx); err != nil {
				return err
			}
			if _, err := repo.Get(ctx, x.ID()); err != nil {
				return err
			}
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	secondLocked := make(chan struct{})
	secondDone := make(chan error, 1)
	go func() {
		secondDone <- suite.db.Transaction(func(tx *gorm.DB) error {
			repo := orderrepo.NewGormOrderRepository(tx, suite.tracker)
			if err := repo.LockQueue(ctx); err != nil {
				return err
			}
			close(secondLocked)
			_, err := repo.GetMany(ctx, []kernel.UUID{y.ID(), x.ID()})
			return err
		})
	}()

	select {
	case <-secondLocked:
		suite.Fail("queue lock was granted while another transaction held it")
	case <-time.After(300 * time.Millisecond):
	}

	close(release)
	suite.Require().NoError(<-firstDone)
	suite.Require().NoError(<-secondDone)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestRankSwap_IsDeferredUntilCommit() {
	ctx := context.Background()
	a := suite.newOrder("P-1", kernel.NewUUID(), suite.now)
	b := suite.newOrder("P-2", kernel.NewUUID(), suite.now)
	suite.Require().NoError(a.PlaceInQueue(1, suite.now))
	suite.Require().NoError(b.PlaceInQueue(2, suite.now))
	suite.Require().NoError(suite.repository.Add(ctx, a))
	suite.Require().NoError(suite.repository.Add(ctx, b))

	err := suite.db.Transaction(func(tx *gorm.DB) error {
		repo := orderrepo.NewGormOrderRepository(tx, suite.tracker)
		suite.Require().NoError(a.PlaceInQueue(2, suite.now))
		suite.Require().NoError(repo.Update(ctx, a))
		suite.Require().NoError(b.PlaceInQueue(1, suite.now))
		return repo.Update(ctx, b)
	})
	suite.Require().NoError(err)

	ranked := true
	list, err := suite.reader.ListOrders(ctx, ports.OrderFilter{Ranked: &ranked, Sort: ports.SortByRank})
	suite.Require().NoError(err)
	suite.Require().Len(list, 2)
	suite.True(list[0].IsEqual(b))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestBookingTaken() {
	ctx := context.Background()
	carrier := kernel.NewUUID()
	o := suite.newOrder("P-1", carrier, suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	taken, err := suite.repository.BookingTaken(ctx, o.BookingKey(), kernel.NewUUID())
	suite.Require().NoError(err)
	suite.True(taken)

	taken, err = suite.repository.BookingTaken(ctx, o.BookingKey(), o.ID())
	suite.Require().NoError(err)
	suite.False(taken)

	clash := suite.newOrder("P-2", carrier, suite.now)
	route := o.Route()
	suite.Require().NoError(clash.Revise(order.Revision{Route: route}, suite.now))
	suite.Require().ErrorIs(suite.repository.Add(ctx, clash), errs.ErrObjectAlreadyExist)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestDelete() {
	ctx := context.Background()
	o := suite.newOrder("P-1", kernel.NewUUID(), suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.Require().NoError(suite.repository.Delete(ctx, o.ID()))
	_, err := suite.reader.GetOrder(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Require().ErrorIs(suite.repository.Delete(ctx, o.ID()), errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListOrders_FiltersAndSorts() {
	ctx := context.Background()
	old := suite.newOrder("P-1", kernel.NewUUID(), suite.now)
	mid := suite.newOrder("P-2", kernel.NewUUID(), suite.now.Add(time.Hour))
	recent := suite.newOrder("P-3", kernel.NewUUID(), suite.now.AddDate(0, 0, 1))
	suite.Require().NoError(mid.PlaceInQueue(1, suite.now))
	for _, o := range []*order.Order{old, mid, recent} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	ids := func(list []*order.Order) []kernel.UUID {
		out := make([]kernel.UUID, 0, len(list))
		for _, o := range list {
			out = append(out, o.ID())
		}
		return out
	}

	all, err := suite.reader.ListOrders(ctx, ports.OrderFilter{})
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{recent.ID(), mid.ID(), old.ID()}, ids(all))

	unranked := false
	pool, err := suite.reader.ListOrders(ctx, ports.OrderFilter{Ranked: &unranked, Sort: ports.SortOldestFirst})
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{old.ID(), recent.ID()}, ids(pool))

	from, before := suite.now, suite.now.Add(2*time.Hour)
	window, err := suite.reader.ListOrders(ctx, ports.OrderFilter{CreatedFrom: &from, CreatedBefore: &before})
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{mid.ID(), old.ID()}, ids(window))

	pending := order.Pending
	byStatus, err := suite.reader.ListOrders(ctx, ports.OrderFilter{Status: &pending})
	suite.Require().NoError(err)
	suite.Len(byStatus, 3)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestManifestLedger_Claim() {
	ctx := context.Background()
	ledger := orderrepo.NewGormManifestLedger(suite.db)
	owner := kernel.NewUUID()

	suite.Require().NoError(ledger.Claim(ctx, "P-1", owner))
	suite.Require().NoError(ledger.Claim(ctx, "P-1", owner))
	suite.Require().ErrorIs(ledger.Claim(ctx, "P-1", kernel.NewUUID()), errs.ErrObjectAlreadyExist)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
