package repository

import (
	"context"
	"fmt"
	"strings"

	domain "riad/internal/domain/bookings"
)

type SheetClient interface {
	Enabled() bool
	ReadRows(ctx context.Context, rangeName string) ([][]string, error)
	AppendRow(ctx context.Context, rangeName string, row []string) error
	UpdateCell(ctx context.Context, sheet string, row int, column, value string) error
}

// GuestsRepo stores bookings as rows of the operations sheet, one booking
// per row below a header row.
type GuestsRepo struct {
	client SheetClient
	sheet  string
}

func NewGuestsRepo(client SheetClient, sheet string) *GuestsRepo {
	if client == nil {
		panic("missing sheet client")
	}
	if sheet == "" {
		sheet = "Master_Guests"
	}

	return &GuestsRepo{
		client: client,
		sheet:  sheet,
	}
}

func (r *GuestsRepo) Enabled() bool {
	return r.client.Enabled()
}

func (r *GuestsRepo) AddBooking(ctx context.Context, booking domain.Booking) error {
	if err := r.client.AppendRow(ctx, r.sheet+"!A:A", booking.Row()); err != nil {
		return fmt.Errorf("failed to add booking %s: %w", booking.ID, err)
	}
	return nil
}

// Bookings returns every data row. Rows without a booking id are skipped but
// keep their position, so RowIndex always points at the right sheet row.
func (r *GuestsRepo) Bookings(ctx context.Context) ([]domain.Booking, error) {
	lastColumn := domain.Column(domain.ColumnCount - 1).Letter()

	rows, err := r.client.ReadRows(ctx, fmt.Sprintf("%s!A2:%s", r.sheet, lastColumn))
	if err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}

	bookings := make([]domain.Booking, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[domain.ColBookingID]) == "" {
			continue
		}
		bookings = append(bookings, domain.ParseRow(i, row))
	}

	return bookings, nil
}

func (r *GuestsRepo) UpdateNotes(ctx context.Context, booking domain.Booking, notes string) error {
	err := r.client.UpdateCell(ctx, r.sheet, booking.SheetRow(), domain.ColNotes.Letter(), notes)
	if err != nil {
		return fmt.Errorf("failed to update notes of %s: %w", booking.ID, err)
	}
	return nil
}
