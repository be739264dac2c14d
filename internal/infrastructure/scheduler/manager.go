// Package scheduler runs periodic background jobs using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/hopperkey/phatdev/internal/shared/biztime"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

// BatchJob is one run of a scheduled job. It returns how many items it
// looked at.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) { return f(ctx) }

// SchedulerManager owns the single gocron scheduler of the process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.Mutex
}

func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterInventoryJob refreshes the key inventory every interval, starting
// immediately. Runs never overlap.
func (m *SchedulerManager) RegisterInventoryJob(job BatchJob, interval time.Duration) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			m.run(ctx, "key-inventory", job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("metrics", "inventory"),
		gocron.WithName("key-inventory"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered inventory job", "interval", interval.String())
	return nil
}

func (m *SchedulerManager) run(ctx context.Context, name string, job BatchJob) {
	startTime := biztime.NowUTC()

	count, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("scheduled job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Debugw("scheduled job finished",
		"job", name,
		"count", count,
		"duration", time.Since(startTime),
	)
}

func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}
	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "jobs", len(m.scheduler.Jobs()))
}

// Shutdown stops the scheduler and waits for running jobs.
func (m *SchedulerManager) Shutdown() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if err := m.scheduler.Shutdown(); err != nil {
		m.logger.Errorw("failed to shut down scheduler", "error", err)
		return err
	}
	m.started = false
	return nil
}
