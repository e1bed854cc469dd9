package clients

import (
	"context"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"riad/internal/config"
)

var ErrStoreDisabled = errors.New("operations spreadsheet is not configured")

const (
	valueInputUserEntered = "USER_ENTERED"
	valueInputRaw         = "RAW"
	insertRows            = "INSERT_ROWS"
)

type SpreadsheetsClient struct {
	spreadsheetID string
	service       *sheets.Service
}

// NewSpreadsheetsClient returns a disabled client when spreadsheetID is
// empty: reads come back empty and writes fail with ErrStoreDisabled.
func NewSpreadsheetsClient(
	ctx context.Context,
	spreadsheetID string,
	opts ...option.ClientOption,
) (*SpreadsheetsClient, error) {
	if spreadsheetID == "" {
		return &SpreadsheetsClient{}, nil
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SpreadsheetsClient{
		spreadsheetID: spreadsheetID,
		service:       service,
	}, nil
}

// ServiceAccountTokenSource builds the oauth2 token source for the sheets
// scope. The key is checked here so a broken credential fails at startup.
func ServiceAccountTokenSource(ctx context.Context, sa config.ServiceAccount) (oauth2.TokenSource, error) {
	if sa.IsZero() {
		return nil, config.ErrNoCredentials
	}
	if block, _ := pem.Decode([]byte(sa.PrivateKey)); block == nil {
		return nil, errors.New("service account private key is not PEM encoded")
	}

	tokenURL := sa.TokenURL
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}

	cfg := &jwt.Config{
		Email:        sa.Email,
		PrivateKey:   []byte(sa.PrivateKey),
		PrivateKeyID: sa.PrivateKeyID,
		TokenURL:     tokenURL,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}

	return cfg.TokenSource(ctx), nil
}

func (c *SpreadsheetsClient) Enabled() bool {
	return c.service != nil
}

func (c *SpreadsheetsClient) ReadRows(ctx context.Context, rangeName string) ([][]string, error) {
	if !c.Enabled() {
		log.FromContext(ctx).
			WithField("range", rangeName).
			Warn("Spreadsheet id not configured, returning no rows")
		return nil, nil
	}

	resp, err := c.service.Spreadsheets.Values.
		Get(c.spreadsheetID, rangeName).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", rangeName, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}

	log.FromContext(ctx).
		WithField("range", rangeName).
		WithField("rows", len(rows)).
		Debug("Fetched rows")

	return rows, nil
}

func (c *SpreadsheetsClient) AppendRow(ctx context.Context, rangeName string, row []string) error {
	if !c.Enabled() {
		return ErrStoreDisabled
	}

	_, err := c.service.Spreadsheets.Values.
		Append(c.spreadsheetID, rangeName, &sheets.ValueRange{
			Values: [][]interface{}{toValues(row)},
		}).
		ValueInputOption(valueInputUserEntered).
		InsertDataOption(insertRows).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("error appending to %s: %w", rangeName, err)
	}

	return nil
}

// UpdateCell overwrites one cell addressed as sheet!<column><row>.
func (c *SpreadsheetsClient) UpdateCell(ctx context.Context, sheet string, row int, column, value string) error {
	if !c.Enabled() {
		return ErrStoreDisabled
	}

	cell := fmt.Sprintf("%s!%s%d", sheet, column, row)

	_, err := c.service.Spreadsheets.Values.
		Update(c.spreadsheetID, cell, &sheets.ValueRange{
			Values: [][]interface{}{{value}},
		}).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("error updating %s: %w", cell, err)
	}

	return nil
}

func toValues(row []string) []interface{} {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	return values
}
