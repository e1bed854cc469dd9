package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

var ErrNoCredentials = errors.New("no google service account credentials configured")

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	SpreadsheetID       string `envconfig:"OPS_SPREADSHEET_ID"`
	SheetsID            string `envconfig:"GOOGLE_SHEETS_ID"`
	LegacySpreadsheetID string `envconfig:"GOOGLE_SPREADSHEET_ID"`
	GuestsSheet         string `envconfig:"GUESTS_SHEET" default:"Master_Guests"`

	ServiceAccountBase64 string `envconfig:"GOOGLE_SERVICE_ACCOUNT_BASE64"`
	ClientEmail          string `envconfig:"GOOGLE_CLIENT_EMAIL"`
	ServiceAccountEmail  string `envconfig:"GOOGLE_SERVICE_ACCOUNT_EMAIL"`
	PrivateKey           string `envconfig:"GOOGLE_PRIVATE_KEY"`
	PrivateKeyBase64     string `envconfig:"GOOGLE_PRIVATE_KEY_BASE64"`

	ResendAPIKey   string `envconfig:"RESEND_API_KEY"`
	EmailFrom      string `envconfig:"EMAIL_FROM" default:"Riad di Siena <operations@riaddisiena.com>"`
	OperatorEmail  string `envconfig:"OPERATOR_EMAIL" default:"happy@riaddisiena.com"`
	ArrivalFormURL string `envconfig:"ARRIVAL_FORM_URL" default:"https://ops.riaddisiena.com/arrival"`
	DashboardURL   string `envconfig:"DASHBOARD_URL" default:"ops.riaddisiena.com"`

	CronSecret string `envconfig:"CRON_SECRET"`
	RedisAddr  string `envconfig:"REDIS_ADDR"`

	Timezone           string `envconfig:"TIMEZONE" default:"Africa/Casablanca"`
	PreArrivalDays     int    `envconfig:"PRE_ARRIVAL_DAYS" default:"5"`
	PreArrivalRunAt    string `envconfig:"PRE_ARRIVAL_RUN_AT" default:"09:00"`
	PreArrivalSchedule bool   `envconfig:"PRE_ARRIVAL_SCHEDULE" default:"false"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Resolved by Load.
	ServiceAccount ServiceAccount `ignored:"true"`
	Location       *time.Location `ignored:"true"`
	RunAt          time.Duration  `ignored:"true"`
}

// ServiceAccount is the single credential shape the sheets client consumes,
// whatever environment encoding it came from.
type ServiceAccount struct {
	Email        string
	PrivateKey   string
	PrivateKeyID string
	TokenURL     string
}

func (s ServiceAccount) IsZero() bool {
	return s.Email == "" || s.PrivateKey == ""
}

// StoreEnabled reports whether an operations spreadsheet is configured.
func (c Config) StoreEnabled() bool {
	return c.SpreadsheetID != ""
}

func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	if err := c.resolve(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c *Config) resolve() error {
	c.SpreadsheetID = firstNonEmpty(c.SpreadsheetID, c.SheetsID, c.LegacySpreadsheetID)

	if c.StoreEnabled() {
		sa, err := ResolveServiceAccount(*c)
		if err != nil {
			return err
		}
		c.ServiceAccount = sa
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc

	runAt, err := parseClock(c.PreArrivalRunAt)
	if err != nil {
		return fmt.Errorf("invalid PRE_ARRIVAL_RUN_AT %q: %w", c.PreArrivalRunAt, err)
	}
	c.RunAt = runAt

	if c.PreArrivalDays < 0 {
		return fmt.Errorf("PRE_ARRIVAL_DAYS must not be negative, got %d", c.PreArrivalDays)
	}

	return nil
}

// ResolveServiceAccount tries the three supported encodings in order: the
// full base64 JSON key file, email + raw key, email + base64 key.
func ResolveServiceAccount(c Config) (ServiceAccount, error) {
	var errs []error

	if c.ServiceAccountBase64 != "" {
		sa, err := fromKeyFile(c.ServiceAccountBase64)
		if err == nil {
			return sa, nil
		}
		errs = append(errs, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_BASE64: %w", err))
	}

	email := firstNonEmpty(c.ClientEmail, c.ServiceAccountEmail)

	if email != "" && c.PrivateKey != "" {
		return ServiceAccount{
			Email:      email,
			PrivateKey: unescapeNewlines(c.PrivateKey),
		}, nil
	}

	if email != "" && c.PrivateKeyBase64 != "" {
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(c.PrivateKeyBase64))
		if err == nil {
			return ServiceAccount{
				Email:      email,
				PrivateKey: unescapeNewlines(string(key)),
			}, nil
		}
		errs = append(errs, fmt.Errorf("GOOGLE_PRIVATE_KEY_BASE64: %w", err))
	}

	if len(errs) > 0 {
		return ServiceAccount{}, fmt.Errorf("%w: %w", ErrNoCredentials, errors.Join(errs...))
	}

	return ServiceAccount{}, ErrNoCredentials
}

type keyFile struct {
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

func fromKeyFile(encoded string) (ServiceAccount, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return ServiceAccount{}, fmt.Errorf("decode base64: %w", err)
	}

	var kf keyFile
	if err := json.Unmarshal(raw, &kf); err != nil {
		return ServiceAccount{}, fmt.Errorf("unmarshal key file: %w", err)
	}

	sa := ServiceAccount{
		Email:        kf.ClientEmail,
		PrivateKey:   unescapeNewlines(kf.PrivateKey),
		PrivateKeyID: kf.PrivateKeyID,
		TokenURL:     kf.TokenURI,
	}
	if sa.IsZero() {
		return ServiceAccount{}, errors.New("key file has no client_email or private_key")
	}

	return sa, nil
}

func unescapeNewlines(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
