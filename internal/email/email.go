// Package email renders and sends the guest and operator emails for the
// booking pipeline. Sending is best-effort: every operation reports its
// outcome in a SendResult instead of returning an error.
package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"golang.org/x/sync/errgroup"

	"riad/internal/domain/bookings"
)

type Message struct {
	From    string
	To      []string
	Bcc     []string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type SendResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func failed(err error) SendResult {
	return SendResult{Error: err.Error()}
}

type BookingEmailsResult struct {
	Guest SendResult `json:"guest"`
	Owner SendResult `json:"owner"`
}

type Config struct {
	From           string
	OperatorEmail  string
	ArrivalFormURL string
	AdminURL       string

	// Location decides which calendar day a zoned timestamp is shown as.
	// Defaults to UTC.
	Location *time.Location
}

// PreArrival is what the reminder needs from a stored booking row.
type PreArrival struct {
	BookingID            string
	FirstName            string
	Email                string
	CheckIn              string
	CheckOut             string
	Room                 string
	Property             string
	ArrivalTimeConfirmed bool
	ConfirmedTime        string
}

func PreArrivalFromBooking(b bookings.Booking) PreArrival {
	return PreArrival{
		BookingID:            b.ID,
		FirstName:            orDefault(b.FirstName, "Guest"),
		Email:                b.Email,
		CheckIn:              b.CheckIn,
		CheckOut:             b.CheckOut,
		Room:                 orDefault(b.Room, "Your room"),
		Property:             b.Property,
		ArrivalTimeConfirmed: b.ArrivalTimeKnown(),
		ConfirmedTime:        strings.TrimSpace(b.ArrivalTimeConfirmed),
	}
}

type Dispatcher struct {
	sender Sender
	config Config
}

func NewDispatcher(sender Sender, config Config) *Dispatcher {
	if sender == nil {
		panic("missing sender")
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &Dispatcher{
		sender: sender,
		config: config,
	}
}

func (d *Dispatcher) arrivalFormURL(bookingID string) string {
	return d.config.ArrivalFormURL + "?id=" + url.QueryEscape(bookingID)
}

func (d *Dispatcher) SendGuestConfirmation(ctx context.Context, b bookings.Booking) SendResult {
	content := bookings.ClassifyProperty(b.Property).Content()

	html, err := render("guest_confirmation.html", guestConfirmationData{
		Booking:        b,
		Content:        content,
		Accommodation:  accommodationName(b),
		TentLabel:      b.Kind == bookings.AccommodationTent,
		ArrivalFormURL: d.arrivalFormURL(b.ID),
	}, d.config.Location)
	if err != nil {
		return d.logFailure(ctx, "guest confirmation", b.ID, err)
	}

	return d.send(ctx, "guest confirmation", b.ID, Message{
		From:    d.config.From,
		To:      []string{b.Email},
		Bcc:     []string{d.config.OperatorEmail},
		Subject: "Your reservation at " + content.Name,
		HTML:    html,
	})
}

func (d *Dispatcher) SendOwnerNotification(ctx context.Context, b bookings.Booking) SendResult {
	accommodation := accommodationName(b)

	html, err := render("owner_notification.html", ownerNotificationData{
		Booking:       b,
		Accommodation: accommodation,
		AdminURL:      d.config.AdminURL,
	}, d.config.Location)
	if err != nil {
		return d.logFailure(ctx, "owner notification", b.ID, err)
	}

	return d.send(ctx, "owner notification", b.ID, Message{
		From: d.config.From,
		To:   []string{d.config.OperatorEmail},
		Subject: fmt.Sprintf("💰 New Booking: %s - %s - %s",
			b.FullName(), bookings.FormatEUR(b.Total), accommodation),
		HTML: html,
	})
}

// SendBookingEmails sends the guest and owner emails concurrently. Neither
// send affects the other.
func (d *Dispatcher) SendBookingEmails(ctx context.Context, b bookings.Booking) BookingEmailsResult {
	var (
		result BookingEmailsResult
		g      errgroup.Group
	)

	g.Go(func() error {
		result.Guest = d.SendGuestConfirmation(ctx, b)
		return nil
	})
	g.Go(func() error {
		result.Owner = d.SendOwnerNotification(ctx, b)
		return nil
	})
	_ = g.Wait()

	return result
}

func (d *Dispatcher) SendPreArrival(ctx context.Context, p PreArrival) SendResult {
	content := bookings.ClassifyProperty(p.Property).Content()

	html, err := render("pre_arrival.html", preArrivalData{
		PreArrival:     p,
		Content:        content,
		ShowTime:       p.ArrivalTimeConfirmed && p.ConfirmedTime != "",
		ArrivalFormURL: d.arrivalFormURL(p.BookingID),
	}, d.config.Location)
	if err != nil {
		return d.logFailure(ctx, "pre-arrival", p.BookingID, err)
	}

	subject := "Action needed: Confirm your arrival time"
	if p.ArrivalTimeConfirmed {
		subject = "Preparing for your arrival on " + formatDate(p.CheckIn, d.config.Location)
	}

	return d.send(ctx, "pre-arrival", p.BookingID, Message{
		From:    d.config.From,
		To:      []string{p.Email},
		Bcc:     []string{d.config.OperatorEmail},
		Subject: subject,
		HTML:    html,
	})
}

// SendBookkeepingAlert tells the operator that a paid booking could not be
// written to the operations sheet, with the cells to enter by hand.
func (d *Dispatcher) SendBookkeepingAlert(ctx context.Context, b bookings.Booking, reason string) SendResult {
	row := b.Row()
	cells := make([]alertCell, len(row))
	for i, value := range row {
		cells[i] = alertCell{Column: bookings.Column(i).Letter(), Value: value}
	}

	html, err := render("bookkeeping_alert.html", bookkeepingAlertData{
		Booking: b,
		Reason:  reason,
		Cells:   cells,
	}, d.config.Location)
	if err != nil {
		return d.logFailure(ctx, "bookkeeping alert", b.ID, err)
	}

	return d.send(ctx, "bookkeeping alert", b.ID, Message{
		From:    d.config.From,
		To:      []string{d.config.OperatorEmail},
		Subject: fmt.Sprintf("⚠️ Booking %s is missing from the operations sheet", b.ID),
		HTML:    html,
	})
}

func (d *Dispatcher) send(ctx context.Context, kind, bookingID string, msg Message) SendResult {
	id, err := d.sender.Send(ctx, msg)
	if err != nil {
		return d.logFailure(ctx, kind, bookingID, err)
	}

	log.FromContext(ctx).
		WithField("booking_id", bookingID).
		WithField("email_id", id).
		Infof("Sent %s email", kind)

	return SendResult{Success: true, ID: id}
}

func (d *Dispatcher) logFailure(ctx context.Context, kind, bookingID string, err error) SendResult {
	log.FromContext(ctx).
		WithField("booking_id", bookingID).
		WithField("error", err).
		Errorf("Failed to send %s email", kind)

	return failed(err)
}

func accommodationName(b bookings.Booking) string {
	return orDefault(b.Room, "Accommodation")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
