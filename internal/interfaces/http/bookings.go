package http

import (
	"errors"
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"

	"riad/internal/domain/bookings"
	"riad/internal/idempotency"
)

type CreateBookingResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId,omitempty"`
	Message   string `json:"message,omitempty"`

	Error        string `json:"error,omitempty"`
	PaypalStatus string `json:"paypalStatus,omitempty"`
}

func (s *Server) CreateBookingHandler(c echo.Context) error {
	ctx := idempotency.WithKey(c.Request().Context(), c.Request().Header.Get(idempotency.Header))

	var notification bookings.Notification
	if err := c.Bind(&notification); err != nil {
		log.FromContext(ctx).WithError(err).Error("Invalid booking payload")
		return c.JSON(http.StatusInternalServerError, CreateBookingResponse{Error: "Server error"})
	}

	outcome, err := s.intake.Accept(ctx, notification)
	if errors.Is(err, bookings.ErrPaymentNotCompleted) {
		return c.JSON(http.StatusBadRequest, CreateBookingResponse{
			Error:        "Payment not completed",
			PaypalStatus: notification.PaypalStatus,
		})
	}
	if err != nil {
		log.FromContext(ctx).WithError(err).Error("Booking intake failed")
		return c.JSON(http.StatusInternalServerError, CreateBookingResponse{Error: "Server error"})
	}

	log.FromContext(ctx).
		WithField("booking_id", outcome.BookingID).
		WithField("replayed", outcome.Replayed).
		WithField("store_written", outcome.StoreWritten).
		Info("Booking accepted")

	return c.JSON(http.StatusOK, CreateBookingResponse{
		Success:   true,
		BookingID: outcome.BookingID,
		Message:   "Booking confirmed",
	})
}

func (s *Server) BookingsInfoHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "View bookings at " + s.config.DashboardURL,
	})
}
