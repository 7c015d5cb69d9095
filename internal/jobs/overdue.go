// Package jobs runs the periodic background work of the service.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// OverdueMarker flips pending charges past their due date to overdue.
type OverdueMarker interface {
	Today() civil.Date
	MarkOverdue(ctx context.Context, today civil.Date) (int64, error)
}

// OverdueJob runs the overdue sweep on a cron schedule
type OverdueJob struct {
	marker  OverdueMarker
	log     *logrus.Logger
	timeout time.Duration

	cron *cron.Cron
	mu   sync.Mutex
}

// NewOverdueJob schedules the sweep with a standard five-field cron spec
// evaluated in loc.
func NewOverdueJob(marker OverdueMarker, spec string, loc *time.Location, log *logrus.Logger) (*OverdueJob, error) {
	j := &OverdueJob{
		marker:  marker,
		log:     log,
		timeout: 5 * time.Minute,
		cron:    cron.New(cron.WithLocation(loc)),
	}
	if _, err := j.cron.AddFunc(spec, func() { j.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid overdue schedule %q: %w", spec, err)
	}
	return j, nil
}

// Start begins the schedule in the background
func (j *OverdueJob) Start() {
	j.cron.Start()
	j.log.Info("Overdue job started")
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to end.
func (j *OverdueJob) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
		j.log.Info("Overdue job stopped")
	case <-ctx.Done():
		j.log.Warn("Overdue job did not stop in time")
	}
}

// Run performs one sweep. Concurrent runs are serialized.
func (j *OverdueJob) Run(ctx context.Context) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	today := j.marker.Today()
	n, err := j.marker.MarkOverdue(ctx, today)
	if err != nil {
		j.log.WithError(err).WithField("today", today.String()).Error("Overdue sweep failed")
		return 0, err
	}
	j.log.WithFields(logrus.Fields{"today": today.String(), "updated": n}).Info("Overdue sweep finished")
	return n, nil
}
