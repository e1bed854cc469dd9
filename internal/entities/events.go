package entities

import (
	"time"

	"riad/internal/domain/bookings"
)

type Event interface {
	IsInternal() bool
}

// BookingAccepted_v1 is published after every accepted payment notification,
// whatever happened to the store write and the two emails.
type BookingAccepted_v1 struct {
	Header EventHeader `json:"header"`

	Booking bookings.Booking `json:"booking"`

	StoreWritten bool   `json:"store_written"`
	StoreError   string `json:"store_error,omitempty"`

	GuestEmailSent bool `json:"guest_email_sent"`
	OwnerEmailSent bool `json:"owner_email_sent"`

	AcceptedAt time.Time `json:"accepted_at"`
}

func (e BookingAccepted_v1) IsInternal() bool {
	return false
}

type PreArrivalReminderSent_v1 struct {
	Header EventHeader `json:"header"`

	BookingID     string    `json:"booking_id"`
	Email         string    `json:"email"`
	CheckIn       string    `json:"check_in"`
	EmailID       string    `json:"email_id"`
	MarkerWritten bool      `json:"marker_written"`
	SentAt        time.Time `json:"sent_at"`
}

func (e PreArrivalReminderSent_v1) IsInternal() bool {
	return true
}
