package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	domain "riad/internal/domain/bookings"
	"riad/internal/email"
	"riad/internal/entities"
	"riad/internal/idempotency"
)

type BookingsRepo interface {
	AddBooking(ctx context.Context, booking domain.Booking) error
}

type Mailer interface {
	SendBookingEmails(ctx context.Context, booking domain.Booking) email.BookingEmailsResult
}

type IntakeKeys interface {
	Reserve(ctx context.Context, key, bookingID string) (existing string, reserved bool, err error)
}

type EventBus interface {
	Publish(ctx context.Context, event any) error
}

// Outcome separates accepting the booking, which is all the guest sees,
// from the best-effort side effects that followed it.
type Outcome struct {
	BookingID string
	Replayed  bool

	StoreWritten bool
	StoreError   string

	Emails         *email.BookingEmailsResult
	EventPublished bool
}

type Usecase struct {
	repo   BookingsRepo
	mailer Mailer
	keys   IntakeKeys
	bus    EventBus
	ids    *domain.IDGenerator
	now    func() time.Time
}

func NewUsecase(
	repo BookingsRepo,
	mailer Mailer,
	keys IntakeKeys,
	bus EventBus,
	ids *domain.IDGenerator,
) *Usecase {
	if repo == nil {
		panic("missing bookings repo")
	}
	if mailer == nil {
		panic("missing mailer")
	}
	if ids == nil {
		ids = domain.NewIDGenerator(nil)
	}

	return &Usecase{
		repo:   repo,
		mailer: mailer,
		keys:   keys,
		bus:    bus,
		ids:    ids,
		now:    time.Now,
	}
}

// Accept turns a payment notification into a stored booking and the two
// confirmation emails. Only an incomplete payment is an error: store and
// email failures are reported in the Outcome and never fail the intake.
func (u *Usecase) Accept(ctx context.Context, n domain.Notification) (Outcome, error) {
	if !n.PaymentCompleted() {
		return Outcome{}, fmt.Errorf("status %q: %w", n.PaypalStatus, domain.ErrPaymentNotCompleted)
	}

	bookingID := u.ids.Next()
	logger := log.FromContext(ctx).WithField("booking_id", bookingID)

	key := idempotency.GetKey(ctx)
	if key != "" && u.keys != nil {
		existing, reserved, err := u.keys.Reserve(ctx, key, bookingID)
		if err != nil {
			logger.WithError(err).Warn("Idempotency key store unavailable, accepting without it")
		} else if !reserved {
			logger.WithField("existing_booking_id", existing).Info("Replayed payment notification")
			return Outcome{BookingID: existing, Replayed: true}, nil
		}
	}

	booking := domain.NewBooking(n, bookingID, u.now())
	outcome := Outcome{BookingID: bookingID}

	if err := u.repo.AddBooking(ctx, booking); err != nil {
		logger.WithError(err).Error("Failed to write booking to the operations sheet")
		outcome.StoreError = err.Error()
	} else {
		outcome.StoreWritten = true
	}

	if booking.Email != "" {
		res := u.mailer.SendBookingEmails(ctx, booking)
		outcome.Emails = &res
	} else {
		logger.Warn("Booking has no email address, skipping confirmation emails")
	}

	outcome.EventPublished = u.publish(ctx, booking, outcome)

	return outcome, nil
}

func (u *Usecase) publish(ctx context.Context, booking domain.Booking, outcome Outcome) bool {
	if u.bus == nil {
		return false
	}

	event := entities.BookingAccepted_v1{
		Header:       entities.NewEventHeaderWithIdempotencyKey(idempotency.GetKey(ctx)),
		Booking:      booking,
		StoreWritten: outcome.StoreWritten,
		StoreError:   outcome.StoreError,
		AcceptedAt:   u.now().UTC(),
	}
	if outcome.Emails != nil {
		event.GuestEmailSent = outcome.Emails.Guest.Success
		event.OwnerEmailSent = outcome.Emails.Owner.Success
	}

	if err := u.bus.Publish(ctx, event); err != nil {
		log.FromContext(ctx).
			WithField("booking_id", booking.ID).
			WithError(err).
			Error("Failed to publish BookingAccepted_v1")
		return false
	}

	return true
}
