package scheduler

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"riad/internal/application/usecases/prearrival"
)

type Job interface {
	Run(ctx context.Context) (prearrival.Report, error)
}

// Daily runs the pre-arrival job once a day at RunAt after local midnight.
// It replaces the external cron trigger when the service runs long-lived.
type Daily struct {
	Job      Job
	RunAt    time.Duration
	Location *time.Location

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

func NewDaily(job Job, runAt time.Duration, loc *time.Location) *Daily {
	if loc == nil {
		loc = time.UTC
	}
	return &Daily{
		Job:      job,
		RunAt:    runAt,
		Location: loc,
		now:      time.Now,
		after:    time.After,
	}
}

// Next is the first run strictly after now.
func (d *Daily) Next(now time.Time) time.Time {
	local := now.In(d.Location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, d.Location)

	next := midnight.Add(d.RunAt)
	if !next.After(local) {
		midnight = midnight.AddDate(0, 0, 1)
		next = midnight.Add(d.RunAt)
	}
	return next
}

func (d *Daily) Run(ctx context.Context) error {
	logger := log.FromContext(ctx)

	for {
		next := d.Next(d.now())
		logger.WithField("next_run", next.Format(time.RFC3339)).Info("Pre-arrival run scheduled")

		select {
		case <-ctx.Done():
			return nil
		case <-d.after(next.Sub(d.now())):
		}

		report, err := d.Job.Run(ctx)
		if err != nil {
			logger.WithError(err).Error("Scheduled pre-arrival run failed")
			continue
		}

		logger.
			WithField("target_date", report.TargetDate).
			WithField("sent", report.Results.Sent).
			WithField("skipped", report.Results.Skipped).
			WithField("errors", report.Results.Errors).
			Info("Scheduled pre-arrival run finished")
	}
}
