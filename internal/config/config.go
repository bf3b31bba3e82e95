// Package config loads the relay configuration from environment variables.
// Every provider section is optional and independent: an unconfigured
// provider disables its endpoints only, never the whole process.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

const (
	defaultPort      = 8080
	defaultStaticDir = "web/public"
	defaultBucket    = "materials"

	// Storage backend identifiers.
	StorageBackendSupabase = "supabase"
	StorageBackendS3       = "s3"
)

// Config holds the full relay configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int

	// StaticDir is the directory static frontend assets are served from.
	StaticDir string

	WhatsApp WhatsApp
	Storage  Storage
	Google   Google
	Gemini   Gemini
}

// WhatsApp configures the messaging provider.
type WhatsApp struct {
	Token         string
	PhoneNumberID string
}

// Configured reports whether the messaging feature is usable.
func (w WhatsApp) Configured() bool {
	return w.Token != "" && w.PhoneNumberID != ""
}

// Storage configures the object storage provider.
type Storage struct {
	// Backend selects the adapter: "supabase" (default) or "s3".
	Backend string
	Bucket  string

	Supabase Supabase
	S3       S3
}

// Supabase holds Supabase Storage settings.
type Supabase struct {
	URL        string
	ServiceKey string
}

// Configured reports whether the Supabase adapter is usable.
func (s Supabase) Configured() bool {
	return s.URL != "" && s.ServiceKey != ""
}

// S3 holds S3-compatible storage settings.
type S3 struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Configured reports whether the S3 adapter is usable.
func (s S3) Configured() bool {
	return s.Region != "" && s.AccessKey != "" && s.SecretKey != ""
}

// Configured reports whether the selected storage backend is usable.
func (s Storage) Configured() bool {
	switch s.Backend {
	case StorageBackendS3:
		return s.S3.Configured()
	default:
		return s.Supabase.Configured()
	}
}

// Google configures the Calendar/Sheets service identity.
type Google struct {
	ServiceAccountEmail string
	PrivateKey          string
	CalendarID          string
	SpreadsheetID       string
}

// IdentityConfigured reports whether the service identity is usable.
func (g Google) IdentityConfigured() bool {
	return g.ServiceAccountEmail != "" && g.PrivateKey != ""
}

// Gemini configures the generative text provider.
type Gemini struct {
	APIKey string
	Model  string
}

// Configured reports whether the generative text feature is usable.
func (g Gemini) Configured() bool {
	return g.APIKey != ""
}

// Load reads the configuration from the environment. An optional .env file
// in the working directory is loaded first; absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:      defaultPort,
		StaticDir: defaultStaticDir,
		WhatsApp: WhatsApp{
			Token:         getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: getenv("WHATSAPP_PHONE_NUMBER_ID"),
		},
		Storage: Storage{
			Backend: getenv("STORAGE_BACKEND"),
			Bucket:  getenv("STORAGE_BUCKET"),
			Supabase: Supabase{
				URL:        getenv("SUPABASE_URL"),
				ServiceKey: getenv("SUPABASE_SERVICE_KEY"),
			},
			S3: S3{
				Endpoint:      getenv("S3_ENDPOINT"),
				Region:        getenv("S3_REGION"),
				AccessKey:     getenv("S3_ACCESS_KEY"),
				SecretKey:     getenv("S3_SECRET_KEY"),
				PublicBaseURL: getenv("S3_PUBLIC_BASE_URL"),
			},
		},
		Google: Google{
			ServiceAccountEmail: getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
			PrivateKey:          getenv("GOOGLE_PRIVATE_KEY"),
			CalendarID:          getenv("GOOGLE_CALENDAR_ID"),
			SpreadsheetID:       getenv("GOOGLE_SHEET_ID"),
		},
		Gemini: Gemini{
			APIKey: getenv("GEMINI_API_KEY"),
			Model:  getenv("GEMINI_MODEL"),
		},
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = StorageBackendSupabase
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = defaultBucket
	}
	if dir := getenv("RELAY_STATIC_DIR"); dir != "" {
		cfg.StaticDir = dir
	}

	if portStr := getenv("RELAY_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid RELAY_PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks for malformed values. Absent optional features are fine;
// contradictory or half-set values are not.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Port < 1 || c.Port > 65535 {
		result = multierror.Append(result,
			fmt.Errorf("port %d out of range", c.Port))
	}

	switch c.Storage.Backend {
	case StorageBackendSupabase, StorageBackendS3:
	default:
		result = multierror.Append(result,
			fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}

	// A half-set service identity is an operator mistake, not an absent
	// feature.
	if (c.Google.ServiceAccountEmail == "") != (c.Google.PrivateKey == "") {
		result = multierror.Append(result,
			fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_EMAIL and GOOGLE_PRIVATE_KEY must be set together"))
	}
	if (c.Storage.Supabase.URL == "") != (c.Storage.Supabase.ServiceKey == "") {
		result = multierror.Append(result,
			fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set together"))
	}

	return result.ErrorOrNil()
}
