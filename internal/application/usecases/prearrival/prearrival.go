package prearrival

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	domain "riad/internal/domain/bookings"
	"riad/internal/email"
	"riad/internal/entities"
)

const DefaultDays = 5

type BookingsRepo interface {
	Bookings(ctx context.Context) ([]domain.Booking, error)
	UpdateNotes(ctx context.Context, booking domain.Booking, notes string) error
}

type Mailer interface {
	SendPreArrival(ctx context.Context, p email.PreArrival) email.SendResult
}

type Ledger interface {
	Claim(ctx context.Context, bookingID string) (bool, error)
	Release(ctx context.Context, bookingID string) error
}

type EventBus interface {
	Publish(ctx context.Context, event any) error
}

type Results struct {
	Sent    []string `json:"sent"`
	Skipped []string `json:"skipped"`
	Errors  []string `json:"errors"`
}

type Report struct {
	TargetDate string  `json:"targetDate"`
	Results    Results `json:"results"`
}

type Config struct {
	Days     int
	Location *time.Location
}

type Job struct {
	repo   BookingsRepo
	mailer Mailer
	ledger Ledger
	bus    EventBus

	days int
	loc  *time.Location
	now  func() time.Time
}

func NewJob(repo BookingsRepo, mailer Mailer, ledger Ledger, bus EventBus, config Config) *Job {
	if repo == nil {
		panic("missing bookings repo")
	}
	if mailer == nil {
		panic("missing mailer")
	}
	if config.Days < 0 {
		config.Days = DefaultDays
	}
	if config.Location == nil {
		config.Location = time.UTC
	}

	return &Job{
		repo:   repo,
		mailer: mailer,
		ledger: ledger,
		bus:    bus,
		days:   config.Days,
		loc:    config.Location,
		now:    time.Now,
	}
}

// Run sends the pre-arrival email to every website booking checking in
// exactly the configured number of days from today. Per-booking failures are
// collected in the report; only a failed read of the sheet fails the run.
func (j *Job) Run(ctx context.Context) (Report, error) {
	now := j.now()
	target := domain.TargetDate(now, j.days, j.loc)

	report := Report{
		TargetDate: target.Format(domain.DateLayout),
		Results: Results{
			Sent:    []string{},
			Skipped: []string{},
			Errors:  []string{},
		},
	}

	bookings, err := j.repo.Bookings(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load bookings: %w", err)
	}

	logger := log.FromContext(ctx).WithField("target_date", report.TargetDate)
	logger.WithField("bookings", len(bookings)).Info("Running pre-arrival reminders")

	for _, booking := range bookings {
		if !j.due(booking, target) {
			continue
		}
		j.remind(ctx, logger.WithField("booking_id", booking.ID), booking, &report.Results)
	}

	logger.
		WithField("sent", len(report.Results.Sent)).
		WithField("skipped", len(report.Results.Skipped)).
		WithField("errors", len(report.Results.Errors)).
		Info("Pre-arrival reminders done")

	return report, nil
}

func (j *Job) due(b domain.Booking, target time.Time) bool {
	if !b.IsWebsite() || b.IsCancelled() || b.Email == "" {
		return false
	}

	checkIn, err := domain.ParseCheckIn(b.CheckIn, j.loc)
	if err != nil {
		return false
	}

	return domain.SameDay(checkIn, target)
}

func (j *Job) remind(ctx context.Context, logger *logrus.Entry, b domain.Booking, results *Results) {
	if domain.HasReminderMarker(b.Notes) {
		results.Skipped = append(results.Skipped, b.ID)
		return
	}

	if j.ledger != nil {
		claimed, err := j.ledger.Claim(ctx, b.ID)
		if err != nil {
			logger.WithError(err).Warn("Reminder ledger unavailable, relying on the notes marker")
		} else if !claimed {
			logger.Info("Reminder already claimed by another run")
			results.Skipped = append(results.Skipped, b.ID)
			return
		}
	}

	res := j.mailer.SendPreArrival(ctx, email.PreArrivalFromBooking(b))
	if !res.Success {
		if j.ledger != nil {
			if err := j.ledger.Release(ctx, b.ID); err != nil {
				logger.WithError(err).Warn("Failed to release reminder claim")
			}
		}
		results.Errors = append(results.Errors, fmt.Sprintf("%s: %s", b.ID, res.Error))
		return
	}

	results.Sent = append(results.Sent, b.ID)

	sentAt := j.now()
	markerWritten := true
	if err := j.repo.UpdateNotes(ctx, b, domain.AppendReminderMarker(b.Notes, sentAt)); err != nil {
		// the email went out; the ledger claim stays so a later run does not resend
		logger.WithError(err).Error("Reminder sent but the notes marker could not be written")
		results.Errors = append(results.Errors, fmt.Sprintf("%s: marker not written: %s", b.ID, err))
		markerWritten = false
	}

	j.publish(ctx, logger, entities.PreArrivalReminderSent_v1{
		Header:        entities.NewEventHeaderWithIdempotencyKey("pre-arrival:" + b.ID),
		BookingID:     b.ID,
		Email:         b.Email,
		CheckIn:       b.CheckIn,
		EmailID:       res.ID,
		MarkerWritten: markerWritten,
		SentAt:        sentAt.UTC(),
	})
}

func (j *Job) publish(ctx context.Context, logger *logrus.Entry, event entities.PreArrivalReminderSent_v1) {
	if j.bus == nil {
		return
	}
	if err := j.bus.Publish(ctx, event); err != nil {
		logger.WithError(err).Error("Failed to publish PreArrivalReminderSent_v1")
	}
}
