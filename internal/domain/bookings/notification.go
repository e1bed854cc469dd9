package bookings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	PaymentCompleted = "COMPLETED"
	DefaultProperty  = "Riad di Siena"
	IDPrefix         = "RDS-"
)

type Accommodation string

const (
	AccommodationRoom       Accommodation = "room"
	AccommodationTent       Accommodation = "tent"
	AccommodationExperience Accommodation = "experience"
)

// Notification is the payment-completion payload posted by the checkout
// widget. Older forms send a single `name` and `roomPreference`.
type Notification struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`

	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Nights   Number `json:"nights"`
	Guests   Number `json:"guests"`
	Adults   Number `json:"adults"`
	Children Number `json:"children"`
	Total    Number `json:"total"`

	Property   string `json:"property"`
	Room       string `json:"room"`
	Tent       string `json:"tent"`
	TentLevel  string `json:"tentLevel"`
	Experience string `json:"experience"`

	PaypalOrderID string `json:"paypalOrderId"`
	PaypalStatus  string `json:"paypalStatus"`

	// legacy
	Name           string `json:"name"`
	RoomPreference string `json:"roomPreference"`
}

func (n Notification) PaymentCompleted() bool {
	return strings.EqualFold(n.PaypalStatus, PaymentCompleted)
}

// GuestName prefers the structured fields and falls back to splitting the
// legacy combined name.
func (n Notification) GuestName() (first, last string) {
	legacyFirst, legacyLast := SplitName(n.Name)

	first = strings.TrimSpace(n.FirstName)
	if first == "" {
		first = legacyFirst
	}
	last = strings.TrimSpace(n.LastName)
	if last == "" {
		last = legacyLast
	}
	return first, last
}

func (n Notification) PropertyName() string {
	if p := strings.TrimSpace(n.Property); p != "" {
		return p
	}
	return DefaultProperty
}

// Accommodation returns the first non-empty of room, tent, experience and
// the legacy room preference.
func (n Notification) Accommodation() (string, Accommodation) {
	candidates := []struct {
		name string
		kind Accommodation
	}{
		{n.Room, AccommodationRoom},
		{n.Tent, AccommodationTent},
		{n.Experience, AccommodationExperience},
		{n.RoomPreference, AccommodationRoom},
	}
	for _, c := range candidates {
		if name := strings.TrimSpace(c.name); name != "" {
			return name, c.kind
		}
	}
	return "", AccommodationRoom
}

// SplitName splits on the first whitespace boundary.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	i := strings.IndexFunc(name, unicode.IsSpace)
	if i < 0 {
		return name, ""
	}
	return name[:i], strings.TrimSpace(name[i:])
}

// NewBooking builds the record written to the store for a completed payment.
func NewBooking(n Notification, id string, now time.Time) Booking {
	first, last := n.GuestName()
	room, kind := n.Accommodation()

	nights := n.Nights.IntOr(1)
	guests := n.Guests.IntOr(n.Adults.IntOr(1))
	adults := n.Adults.IntOr(guests)

	var notes string
	if n.PaypalOrderID != "" {
		notes = "PayPal: " + n.PaypalOrderID
	}

	return Booking{
		ID:               id,
		Source:           SourceWebsite,
		Status:           StatusConfirmed,
		FirstName:        first,
		LastName:         last,
		Email:            strings.TrimSpace(n.Email),
		Phone:            strings.TrimSpace(n.Phone),
		Property:         n.PropertyName(),
		Room:             room,
		CheckIn:          n.CheckIn,
		CheckOut:         n.CheckOut,
		Nights:           nights,
		Guests:           guests,
		Adults:           adults,
		Children:         n.Children.IntOr(0),
		Total:            float64(n.Total),
		TotalEUR:         FormatEUR(float64(n.Total)),
		SpecialRequests:  n.Message,
		ArrivalConfirmed: ArrivalPending,
		MidstayCheckin:   ArrivalPending,
		Notes:            notes,
		CreatedAt:        timestamp(now),
		PaypalOrderID:    n.PaypalOrderID,
		Kind:             kind,
	}
}

func FormatEUR(amount float64) string {
	return "€" + strconv.FormatFloat(amount, 'f', -1, 64)
}

// Number accepts a JSON number, a numeric string, an empty string or null.
// The booking widgets are not consistent about which one they send.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		data = []byte(s)
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", string(data), err)
	}
	*n = Number(f)
	return nil
}

// IntOr returns the value truncated to int, or def when it is zero.
func (n Number) IntOr(def int) int {
	if n == 0 {
		return def
	}
	return int(n)
}
