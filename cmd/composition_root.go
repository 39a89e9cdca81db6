package cmd

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/referencerepo"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/clock"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg      Config
	logger   *slog.Logger
	clock    clock.Clock
	registry *prometheus.Registry

	uowFactory      ports.UnitOfWorkFactory
	orderReader     ports.OrderReader
	referenceReader ports.ReferenceReader
	notifier        ports.Notifier

	queue  services.LoadQueue
	groups commands.GroupPolicy

	closers []func(context.Context) error
}

func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		clock:    clock.System(cfg.Timezone),
		registry: registry,
		queue:    services.NewLoadQueue(cfg.QueueRevertPolicy),
		groups:   commands.NewGroupPolicy(cfg.AutoGroupRole),
	}

	if err := c.openStorage(); err != nil {
		return nil, err
	}
	if err := c.openNotifier(ctx); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	return c, nil
}

func (c *CompositionRoot) openStorage() error {
	switch c.cfg.StorageDriver {
	case StorageDriverMemory:
		store := memory.NewStore()
		c.uowFactory = memory.NewUnitOfWorkFactory(store)
		c.orderReader = store
		c.referenceReader = store
		c.logger.Warn("using in-memory storage, data is lost on exit")
		return nil
	default:
		db, sqlDB, err := openDatabase(c.cfg, c.logger)
		if err != nil {
			return err
		}
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		c.orderReader = orderrepo.NewGormOrderReader(db)
		c.referenceReader = referencerepo.NewGormReferenceReader(db)
		c.closers = append(c.closers, func(context.Context) error { return sqlDB.Close() })
		return nil
	}
}

func openDatabase(cfg Config, logger *slog.Logger) (*gorm.DB, *sql.DB, error) {
	return postgres.Open(cfg.DSN(), postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, logger)
}

func (c *CompositionRoot) openNotifier(ctx context.Context) error {
	var driver notify.Driver
	switch c.cfg.NotifyDriver {
	case NotifyDriverNoop:
		return nil
	case NotifyDriverKafka:
		driver = notify.NewKafka(c.cfg.KafkaBrokers, c.cfg.KafkaOrderChangedTopic, c.logger)
	case NotifyDriverRedis:
		redis, err := notify.NewRedis(ctx, notify.RedisConfig{
			Addr:     c.cfg.RedisAddr,
			Password: c.cfg.RedisPassword,
			DB:       c.cfg.RedisDB,
			Channel:  c.cfg.RedisChannel,
		})
		if err != nil {
			return err
		}
		driver = redis
	default:
		driver = notify.NewLog(c.logger)
	}

	metrics, err := notify.NewMetrics(c.registry, c.cfg.NotifyDriver)
	if err != nil {
		_ = driver.Close()
		return err
	}
	async := notify.NewAsync(driver, notify.AsyncConfig{
		Buffer:  c.cfg.NotifyBuffer,
		Timeout: c.cfg.NotifyTimeout,
	}, metrics, c.logger)
	c.notifier = async
	c.closers = append(c.closers, async.Close)
	return nil
}

// Close releases the notifier before the database, so queued events are
// still delivered.
func (c *CompositionRoot) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i](ctx))
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CompositionRoot) Registry() *prometheus.Registry {
	return c.registry
}

func (c *CompositionRoot) uows() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoWs() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) referenceUoWs() commands.ReferenceUoWFactory {
	return FuncReferenceUoWFactory(func() commands.ReferenceUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uows(), c.notifier, c.clock)
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() commands.UpdateOrderCommandHandler {
	return commands.NewUpdateOrderCommandHandler(c.uows(), c.notifier, c.clock)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWs(), c.notifier, c.clock, c.queue)
}

func (c *CompositionRoot) CreateSetOrderStateCommandHandler() commands.SetOrderStateCommandHandler {
	return commands.NewSetOrderStateCommandHandler(c.uows(), c.notifier, c.clock, c.queue, c.groups)
}

func (c *CompositionRoot) CreateAdvancePreparationStageCommandHandler() commands.AdvancePreparationStageCommandHandler {
	return commands.NewAdvancePreparationStageCommandHandler(c.uows(), c.notifier, c.clock, c.queue, c.groups)
}

func (c *CompositionRoot) CreateAssignGroupCommandHandler() commands.AssignGroupCommandHandler {
	return commands.NewAssignGroupCommandHandler(c.uows(), c.notifier, c.clock)
}

func (c *CompositionRoot) CreateRemoveGroupCommandHandler() commands.RemoveGroupCommandHandler {
	return commands.NewRemoveGroupCommandHandler(c.orderUoWs(), c.notifier, c.clock)
}

func (c *CompositionRoot) CreateSetQueueOrderCommandHandler() commands.SetQueueOrderCommandHandler {
	return commands.NewSetQueueOrderCommandHandler(c.orderUoWs(), c.notifier, c.clock, c.queue)
}

func (c *CompositionRoot) CreateAppendToQueueCommandHandler() commands.AppendToQueueCommandHandler {
	return commands.NewAppendToQueueCommandHandler(c.orderUoWs(), c.notifier, c.clock, c.queue)
}

func (c *CompositionRoot) CreateRemoveFromQueueCommandHandler() commands.RemoveFromQueueCommandHandler {
	return commands.NewRemoveFromQueueCommandHandler(c.orderUoWs(), c.notifier, c.clock, c.queue)
}

func (c *CompositionRoot) CreateCompactQueueCommandHandler() commands.CompactQueueCommandHandler {
	return commands.NewCompactQueueCommandHandler(c.orderUoWs(), c.notifier, c.clock, c.queue)
}

func (c *CompositionRoot) CreateResolveReferenceCommandHandler() commands.ResolveReferenceCommandHandler {
	return commands.NewResolveReferenceCommandHandler(c.referenceUoWs())
}

func (c *CompositionRoot) CreateDeactivateReferenceCommandHandler() commands.DeactivateReferenceCommandHandler {
	return commands.NewDeactivateReferenceCommandHandler(c.referenceUoWs())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orderReader)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.orderReader)
}

func (c *CompositionRoot) CreateListReceivedTodayQueryHandler() queries.ListReceivedTodayQueryHandler {
	return queries.NewListReceivedTodayQueryHandler(c.orderReader, c.clock)
}

func (c *CompositionRoot) CreateCarrierRouteSummaryQueryHandler() queries.CarrierRouteSummaryQueryHandler {
	return queries.NewCarrierRouteSummaryQueryHandler(c.orderReader, c.referenceReader)
}

func (c *CompositionRoot) CreateListReferencesQueryHandler() queries.ListReferencesQueryHandler {
	return queries.NewListReferencesQueryHandler(c.referenceReader)
}

func (c *CompositionRoot) CreateVerifyQueueQueryHandler() queries.VerifyQueueQueryHandler {
	return queries.NewVerifyQueueQueryHandler(c.orderReader, c.queue)
}

// HTTPHandlers bundles every use case the API serves.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreateOrder:         c.CreateCreateOrderCommandHandler(),
		UpdateOrder:         c.CreateUpdateOrderCommandHandler(),
		DeleteOrder:         c.CreateDeleteOrderCommandHandler(),
		SetOrderState:       c.CreateSetOrderStateCommandHandler(),
		AdvanceStage:        c.CreateAdvancePreparationStageCommandHandler(),
		AssignGroup:         c.CreateAssignGroupCommandHandler(),
		RemoveGroup:         c.CreateRemoveGroupCommandHandler(),
		SetQueueOrder:       c.CreateSetQueueOrderCommandHandler(),
		AppendToQueue:       c.CreateAppendToQueueCommandHandler(),
		RemoveFromQueue:     c.CreateRemoveFromQueueCommandHandler(),
		CompactQueue:        c.CreateCompactQueueCommandHandler(),
		ResolveReference:    c.CreateResolveReferenceCommandHandler(),
		DeactivateReference: c.CreateDeactivateReferenceCommandHandler(),
		GetOrder:            c.CreateGetOrderQueryHandler(),
		ListOrders:          c.CreateListOrdersQueryHandler(),
		ListReceivedToday:   c.CreateListReceivedTodayQueryHandler(),
		CarrierRouteSummary: c.CreateCarrierRouteSummaryQueryHandler(),
		ListReferences:      c.CreateListReferencesQueryHandler(),
	}
}

// CreateQueueAuditJob returns nil when no schedule is configured.
func (c *CompositionRoot) CreateQueueAuditJob() (*jobs.QueueAuditJob, error) {
	if c.cfg.QueueAuditSchedule == "" {
		return nil, nil
	}
	metrics, err := jobs.NewAuditMetrics(c.registry)
	if err != nil {
		return nil, err
	}
	return jobs.NewQueueAuditJob(
		c.cfg.QueueAuditSchedule,
		c.CreateVerifyQueueQueryHandler(),
		c.CreateCompactQueueCommandHandler(),
		metrics,
		c.logger,
	), nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncReferenceUoWFactory func() commands.ReferenceUoW

func (f FuncReferenceUoWFactory) Create() commands.ReferenceUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
