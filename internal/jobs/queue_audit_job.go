package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts five or six field specs and descriptors like "@every 5m".
var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// QueueAuditJob periodically checks the load queue for gaps or duplicate
// ranks and renumbers it when one is found.
type QueueAuditJob struct {
	schedule string
	verify   queries.VerifyQueueQueryHandler
	compact  commands.CompactQueueCommandHandler
	metrics  *AuditMetrics
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewQueueAuditJob(
	schedule string,
	verify queries.VerifyQueueQueryHandler,
	compact commands.CompactQueueCommandHandler,
	metrics *AuditMetrics,
	logger *slog.Logger,
) *QueueAuditJob {
	return &QueueAuditJob{
		schedule: schedule,
		verify:   verify,
		compact:  compact,
		metrics:  metrics,
		cron:     cron.New(cron.WithParser(scheduleParser)),
		logger:   logger.With("component", "queue_audit_job"),
	}
}

func (j *QueueAuditJob) Name() string {
	return "queue audit"
}

func (j *QueueAuditJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Queue audit failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Queue audit job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running audit to finish.
func (j *QueueAuditJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Queue audit job stopped")
}

// RunOnce verifies the queue and compacts it when it is not dense. It
// returns the number of renumbered orders.
func (j *QueueAuditJob) RunOnce(ctx context.Context) (int, error) {
	report, err := j.verify.Handle(ctx, queries.NewVerifyQueueQuery())
	if err != nil {
		j.fail()
		return 0, err
	}
	if j.metrics != nil {
		j.metrics.length.Set(float64(report.Length))
	}
	if report.IsDense() {
		return 0, nil
	}

	j.logger.WarnContext(ctx, "Load queue is not dense", "length", report.Length, "problem", report.Problem)
	renumbered, err := j.compact.Handle(ctx, commands.NewCompactQueueCommand())
	if err != nil {
		j.fail()
		return 0, err
	}
	if j.metrics != nil {
		j.metrics.repaired.Add(float64(renumbered))
	}
	j.logger.InfoContext(ctx, "Load queue compacted", "renumbered", renumbered)
	return renumbered, nil
}

func (j *QueueAuditJob) fail() {
	if j.metrics != nil {
		j.metrics.failures.Inc()
	}
}
