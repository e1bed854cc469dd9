package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"riad/internal/domain/bookings"
	"riad/internal/email"
	"riad/internal/entities"
)

type BookkeepingAlerter interface {
	SendBookkeepingAlert(ctx context.Context, b bookings.Booking, reason string) email.SendResult
}

// BookkeepingAlertHandler emails the operator the row of a paid booking the
// intake could not write to the operations sheet.
func BookkeepingAlertHandler(alerter BookkeepingAlerter) cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"bookkeeping_alert_handler",
		func(ctx context.Context, event *entities.BookingAccepted_v1) error {
			if event.StoreWritten {
				return nil
			}

			res := alerter.SendBookkeepingAlert(ctx, event.Booking, event.StoreError)
			if !res.Success {
				return fmt.Errorf("bookkeeping alert for %s: %s", event.Booking.ID, res.Error)
			}
			return nil
		},
	)
}

func ReminderLogHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"reminder_log_handler",
		func(ctx context.Context, event *entities.PreArrivalReminderSent_v1) error {
			logger := log.FromContext(ctx).
				WithField("booking_id", event.BookingID).
				WithField("check_in", event.CheckIn).
				WithField("email_id", event.EmailID)

			if !event.MarkerWritten {
				logger.Warn("Pre-arrival reminder sent without a notes marker")
				return nil
			}
			logger.Info("Pre-arrival reminder sent")
			return nil
		},
	)
}
