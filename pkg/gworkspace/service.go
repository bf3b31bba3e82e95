// Package gworkspace wraps the Google Calendar and Sheets APIs behind a
// single service authorized as a service identity (service account JWT)
// scoped to both APIs jointly.
package gworkspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Provider is the surface the API layer depends on.
type Provider interface {
	// CreateEvent inserts an event into the configured calendar.
	CreateEvent(ctx context.Context, in EventInput) (*EventResult, error)

	// AppendValues appends rows to the configured spreadsheet at the given
	// range, with user-entered value interpretation.
	AppendValues(ctx context.Context, valueRange string, values [][]interface{}) (*sheets.AppendValuesResponse, error)
}

// Config holds configuration for the workspace service.
type Config struct {
	ServiceAccountEmail string       // Service account email
	PrivateKey          string       // PEM private key; literal \n sequences are unescaped
	CalendarID          string       // Target calendar
	SpreadsheetID       string       // Target spreadsheet
	Endpoint            string       // API endpoint override (tests only; disables auth)
	Logger              hclog.Logger // Logger (optional)
}

// Service implements Provider against the Google APIs.
type Service struct {
	Calendar *calendar.Service
	Sheets   *sheets.Service

	cfg    Config
	logger hclog.Logger
}

var _ Provider = (*Service)(nil)

// NewService builds the service identity and the Calendar and Sheets
// clients. The JWT is scoped to calendar events and spreadsheets jointly;
// both clients share it.
func NewService(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.Endpoint == "" {
		if cfg.ServiceAccountEmail == "" {
			return nil, fmt.Errorf("service account email is required")
		}
		if cfg.PrivateKey == "" {
			return nil, fmt.Errorf("private key is required")
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = []option.ClientOption{
			option.WithEndpoint(cfg.Endpoint),
			option.WithoutAuthentication(),
		}
	} else {
		conf := &jwt.Config{
			Email:      cfg.ServiceAccountEmail,
			PrivateKey: []byte(NormalizePrivateKey(cfg.PrivateKey)),
			Scopes: []string{
				calendar.CalendarEventsScope,
				sheets.SpreadsheetsScope,
			},
			TokenURL: google.JWTTokenURL,
		}
		opts = []option.ClientOption{
			option.WithHTTPClient(conf.Client(ctx)),
		}
	}

	calendarSvc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Service{
		Calendar: calendarSvc,
		Sheets:   sheetsSvc,
		cfg:      cfg,
		logger:   cfg.Logger.Named("gworkspace"),
	}, nil
}

// NormalizePrivateKey converts literal backslash-n sequences in an
// environment-provided private key into real newlines.
func NormalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}
