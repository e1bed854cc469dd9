package bookings

import "errors"

var (
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrInvalidCheckIn      = errors.New("invalid check-in date")
)
