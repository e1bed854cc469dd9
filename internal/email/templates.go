package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"riad/internal/domain/bookings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("").
		Funcs(template.FuncMap{
			"date":   func(s string) string { return formatDate(s, time.UTC) },
			"eur":    bookings.FormatEUR,
			"plural": plural,
		}).
		ParseFS(templateFS, "templates/*.html"),
)

type guestConfirmationData struct {
	Booking        bookings.Booking
	Content        bookings.PropertyContent
	Accommodation  string
	TentLabel      bool
	ArrivalFormURL string
}

type ownerNotificationData struct {
	Booking       bookings.Booking
	Accommodation string
	AdminURL      string
}

type preArrivalData struct {
	PreArrival     PreArrival
	Content        bookings.PropertyContent
	ShowTime       bool
	ArrivalFormURL string
}

type alertCell struct {
	Column string
	Value  string
}

type bookkeepingAlertData struct {
	Booking bookings.Booking
	Reason  string
	Cells   []alertCell
}

// render executes a clone of the parsed set with "date" bound to loc. The
// shared set itself is never executed, so it can always be cloned.
func render(name string, data any, loc *time.Location) (string, error) {
	t, err := templates.Clone()
	if err != nil {
		return "", fmt.Errorf("clone templates: %w", err)
	}
	t.Funcs(template.FuncMap{
		"date": func(s string) string { return formatDate(s, loc) },
	})

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// formatDate renders "Tuesday, June 10, 2025" for the day s falls on in loc,
// or the input unchanged when it is not a date we understand.
func formatDate(s string, loc *time.Location) string {
	t, err := bookings.ParseCheckIn(s, loc)
	if err != nil {
		return s
	}
	return t.Format("Monday, January 2, 2006")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
