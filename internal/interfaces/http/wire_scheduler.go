package http

import (
	"context"
	"fmt"

	"github.com/hopperkey/phatdev/internal/application/license/dto"
	"github.com/hopperkey/phatdev/internal/infrastructure/metrics"
	"github.com/hopperkey/phatdev/internal/infrastructure/scheduler"
)

// initScheduler registers the inventory job when there is a metrics
// registry to publish into. The scheduler only runs after Start.
func (c *Container) initScheduler() error {
	m := c.svcs.metrics
	interval := c.cfg.Metrics.InventoryInterval
	if m == nil || interval <= 0 {
		return nil
	}

	sm, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	job := scheduler.BatchJobFunc(func(ctx context.Context) (int, error) {
		return refreshInventory(ctx, c.ucs.getAnalyticsUC, m)
	})
	if err := sm.RegisterInventoryJob(job, interval); err != nil {
		return fmt.Errorf("failed to register inventory job: %w", err)
	}

	c.scheduler = sm
	return nil
}

type analyticsSource interface {
	Execute(ctx context.Context) (*dto.AnalyticsDTO, error)
}

func refreshInventory(ctx context.Context, src analyticsSource, m *metrics.Metrics) (int, error) {
	stats, err := src.Execute(ctx)
	if err != nil {
		return 0, err
	}
	m.SetInventory(metrics.Inventory{
		Total:        stats.TotalKeys,
		Active:       stats.ActiveKeys,
		Banned:       stats.BannedKeys,
		Expired:      stats.ExpiredKeys,
		Applications: stats.TotalApps,
	})
	return stats.TotalKeys, nil
}
