// Package jobs schedules the background maintenance tasks.
package jobs

import (
	"context"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"
	"github.com/it-is-Aman/ram-enterprise/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 30 * time.Second

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type LowStockCounter interface {
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}

type StatsRefresher interface {
	RefreshStats(ctx context.Context) (domain.DashboardStats, error)
}

type Scheduler struct {
	cron *cron.Cron
}

// New registers the jobs. refresher may be nil when no cache is configured,
// in which case the dashboard warm-up is skipped.
func New(products LowStockCounter, threshold int, refresher StatsRefresher) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC), cron.WithParser(cronParser))

	if _, err := c.AddFunc("@every 5m", LowStockJob(products, threshold)); err != nil {
		return nil, err
	}

	if refresher != nil {
		if _, err := c.AddFunc("@every 1m", DashboardJob(refresher)); err != nil {
			return nil, err
		}
	}

	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		logger.Warn("Scheduler stop timed out")
	}
}

// LowStockJob publishes the number of active products at or below
// threshold to the low-stock gauge.
func LowStockJob(products LowStockCounter, threshold int) func() {
	return func() {
		defer recoverJob("low_stock")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		count, err := products.CountLowStock(ctx, threshold)
		if err != nil {
			logger.Error("Low stock job failed", err)
			return
		}

		metrics.LowStockProducts.Set(float64(count))
		if count > 0 {
			logger.Info("Products running low on stock", "count", count, "threshold", threshold)
		}
	}
}

// DashboardJob keeps the cached dashboard figures warm.
func DashboardJob(refresher StatsRefresher) func() {
	return func() {
		defer recoverJob("dashboard")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if _, err := refresher.RefreshStats(ctx); err != nil {
			logger.Error("Dashboard refresh job failed", err)
		}
	}
}

func recoverJob(name string) {
	if r := recover(); r != nil {
		logger.Error("Job panicked", "job", name, "panic", r)
	}
}
