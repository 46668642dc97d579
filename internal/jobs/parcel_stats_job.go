// Package jobs holds scheduled background tasks built on robfig/cron.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"sendit/internal/domain"
	"sendit/internal/logx"
)

// DefaultStatsSchedule refreshes the gauge once a minute.
const DefaultStatsSchedule = "@every 1m"

type statusCounter interface {
	CountByStatus(ctx context.Context) (map[domain.ParcelStatus]int64, error)
}

// ParcelStatsJob periodically publishes the number of stored parcels per status.
type ParcelStatsJob struct {
	counter  statusCounter
	gauge    *prometheus.GaugeVec
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
	logger   logx.Logger
}

// NewParcelStatsJob creates the job. An empty schedule falls back to DefaultStatsSchedule.
func NewParcelStatsJob(counter statusCounter, gauge *prometheus.GaugeVec, schedule string, logger logx.Logger) *ParcelStatsJob {
	if schedule == "" {
		schedule = DefaultStatsSchedule
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &ParcelStatsJob{
		counter:  counter,
		gauge:    gauge,
		cron:     cron.New(),
		schedule: schedule,
		timeout:  5 * time.Second,
		logger:   logger.With(logx.String("component", "parcel_stats_job")),
	}
}

// Start registers the schedule, runs one refresh right away and starts the scheduler.
func (j *ParcelStatsJob) Start(ctx context.Context) error {
	_, err := j.cron.AddFunc(j.schedule, func() { j.Refresh(ctx) })
	if err != nil {
		return fmt.Errorf("schedule %q: %w", j.schedule, err)
	}

	j.Refresh(ctx)
	j.cron.Start()
	j.logger.Info("parcel stats job started", logx.String("schedule", j.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running refresh.
func (j *ParcelStatsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("parcel stats job stopped")
}

// Refresh queries the store once and updates the gauge. Statuses without rows are set to zero.
func (j *ParcelStatsJob) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	counts, err := j.counter.CountByStatus(ctx)
	if err != nil {
		j.logger.Error("parcel stats refresh failed", logx.Err(err))
		return
	}

	for _, s := range domain.ParcelStatuses() {
		j.gauge.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
	j.logger.Debug("parcel stats refreshed")
}
