package bookings

import (
	"strconv"
	"strings"
	"time"
)

const (
	SourceWebsite = "Website"

	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"

	ArrivalPending   = "pending"
	ArrivalConfirmed = "confirmed"
)

// Column is a zero-based position in the Master_Guests tab. The order is
// fixed by the operations dashboard and shared with the other channels.
type Column int

const (
	ColBookingID Column = iota
	ColSource
	ColStatus
	ColFirstName
	ColLastName
	ColEmail
	ColPhone
	ColCountry
	ColLanguage
	ColProperty
	ColRoom
	ColCheckIn
	ColCheckOut
	ColNights
	ColGuests
	ColAdults
	ColChildren
	ColTotalEUR
	ColCityTax
	ColSpecialRequests
	ColArrivalTimeStated
	ColArrivalRequestSent
	ColArrivalConfirmed
	ColArrivalTimeConfirmed
	ColReadMessages
	ColMidstayCheckin
	ColNotes
	ColCreatedAt
	ColUpdatedAt

	ColumnCount = int(ColUpdatedAt) + 1
)

// Letter returns the A1 column letter, e.g. ColNotes is "AA".
func (c Column) Letter() string {
	n := int(c) + 1
	var letters []byte
	for n > 0 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n /= 26
	}
	return string(letters)
}

// Booking is one row of the operations store.
type Booking struct {
	ID     string `json:"booking_id"`
	Source string `json:"source"`
	Status string `json:"status"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	Language  string `json:"language"`

	Property string `json:"property"`
	Room     string `json:"room"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Nights   int    `json:"nights"`
	Guests   int    `json:"guests"`
	Adults   int    `json:"adults"`
	Children int    `json:"children"`

	Total           float64 `json:"total"`
	TotalEUR        string  `json:"total_eur"`
	CityTax         string  `json:"city_tax"`
	SpecialRequests string  `json:"special_requests"`

	ArrivalTimeStated    string `json:"arrival_time_stated"`
	ArrivalRequestSent   string `json:"arrival_request_sent"`
	ArrivalConfirmed     string `json:"arrival_confirmed"`
	ArrivalTimeConfirmed string `json:"arrival_time_confirmed"`
	ReadMessages         string `json:"read_messages"`
	MidstayCheckin       string `json:"midstay_checkin"`

	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	// Not persisted as columns.
	PaypalOrderID string        `json:"paypal_order_id,omitempty"`
	Kind          Accommodation `json:"accommodation_kind,omitempty"`

	// RowIndex is the zero-based position among data rows (header excluded).
	// Only set for bookings read back from the store.
	RowIndex int `json:"-"`
}

func (b Booking) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// SheetRow is the 1-based spreadsheet row number, accounting for the header.
func (b Booking) SheetRow() int {
	return b.RowIndex + 2
}

func (b Booking) IsWebsite() bool {
	return strings.EqualFold(b.Source, SourceWebsite)
}

func (b Booking) IsCancelled() bool {
	return strings.EqualFold(b.Status, StatusCancelled)
}

// ArrivalTimeKnown is true when the guest already told us when they arrive,
// either through the explicit flag or a filled-in time.
func (b Booking) ArrivalTimeKnown() bool {
	return strings.EqualFold(b.ArrivalConfirmed, ArrivalConfirmed) ||
		strings.TrimSpace(b.ArrivalTimeConfirmed) != ""
}

// Row encodes the booking into the 29 store cells.
func (b Booking) Row() []string {
	row := make([]string, ColumnCount)

	row[ColBookingID] = b.ID
	row[ColSource] = b.Source
	row[ColStatus] = b.Status
	row[ColFirstName] = b.FirstName
	row[ColLastName] = b.LastName
	row[ColEmail] = b.Email
	row[ColPhone] = b.Phone
	row[ColCountry] = b.Country
	row[ColLanguage] = b.Language
	row[ColProperty] = b.Property
	row[ColRoom] = b.Room
	row[ColCheckIn] = b.CheckIn
	row[ColCheckOut] = b.CheckOut
	row[ColNights] = strconv.Itoa(b.Nights)
	row[ColGuests] = strconv.Itoa(b.Guests)
	row[ColAdults] = strconv.Itoa(b.Adults)
	row[ColChildren] = strconv.Itoa(b.Children)
	row[ColTotalEUR] = b.TotalEUR
	row[ColCityTax] = b.CityTax
	row[ColSpecialRequests] = b.SpecialRequests
	row[ColArrivalTimeStated] = b.ArrivalTimeStated
	row[ColArrivalRequestSent] = b.ArrivalRequestSent
	row[ColArrivalConfirmed] = b.ArrivalConfirmed
	row[ColArrivalTimeConfirmed] = b.ArrivalTimeConfirmed
	row[ColReadMessages] = b.ReadMessages
	row[ColMidstayCheckin] = b.MidstayCheckin
	row[ColNotes] = b.Notes
	row[ColCreatedAt] = b.CreatedAt
	row[ColUpdatedAt] = b.UpdatedAt

	return row
}

// ParseRow decodes a stored row. Rows written by other channels are often
// shorter than 29 cells; missing cells read as empty.
func ParseRow(index int, cells []string) Booking {
	cell := func(c Column) string {
		if int(c) < len(cells) {
			return strings.TrimSpace(cells[c])
		}
		return ""
	}
	number := func(c Column) int {
		n, _ := strconv.Atoi(cell(c))
		return n
	}

	return Booking{
		ID:                   cell(ColBookingID),
		Source:               cell(ColSource),
		Status:               cell(ColStatus),
		FirstName:            cell(ColFirstName),
		LastName:             cell(ColLastName),
		Email:                cell(ColEmail),
		Phone:                cell(ColPhone),
		Country:              cell(ColCountry),
		Language:             cell(ColLanguage),
		Property:             cell(ColProperty),
		Room:                 cell(ColRoom),
		CheckIn:              cell(ColCheckIn),
		CheckOut:             cell(ColCheckOut),
		Nights:               number(ColNights),
		Guests:               number(ColGuests),
		Adults:               number(ColAdults),
		Children:             number(ColChildren),
		TotalEUR:             cell(ColTotalEUR),
		CityTax:              cell(ColCityTax),
		SpecialRequests:      cell(ColSpecialRequests),
		ArrivalTimeStated:    cell(ColArrivalTimeStated),
		ArrivalRequestSent:   cell(ColArrivalRequestSent),
		ArrivalConfirmed:     cell(ColArrivalConfirmed),
		ArrivalTimeConfirmed: cell(ColArrivalTimeConfirmed),
		ReadMessages:         cell(ColReadMessages),
		MidstayCheckin:       cell(ColMidstayCheckin),
		// notes keep their original spacing, the marker is appended to them
		Notes:     noteCell(cells),
		CreatedAt: cell(ColCreatedAt),
		UpdatedAt: cell(ColUpdatedAt),
		RowIndex:  index,
	}
}

func noteCell(cells []string) string {
	if int(ColNotes) < len(cells) {
		return cells[ColNotes]
	}
	return ""
}

func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
