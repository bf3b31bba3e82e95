package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edstack/relay/internal/api"
	"github.com/edstack/relay/internal/cmd/base"
	"github.com/edstack/relay/internal/config"
	"github.com/edstack/relay/internal/server"
	"github.com/edstack/relay/pkg/gworkspace"
	"github.com/edstack/relay/pkg/llm"
	"github.com/edstack/relay/pkg/storage"
	"github.com/edstack/relay/pkg/storage/s3"
	"github.com/edstack/relay/pkg/storage/supabase"
	"github.com/edstack/relay/pkg/whatsapp"
)

type Command struct {
	*base.Command

	flagPort      int
	flagStaticDir string
}

func (c *Command) Synopsis() string {
	return "Run the relay server"
}

func (c *Command) Help() string {
	return `Usage: relay server [options]

  Run the relay HTTP server. Configuration comes from environment
  variables (a .env file in the working directory is honored); flags
  override the environment.

` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet("server")

	f.IntVar(&c.flagPort, "port", 0,
		"Listen port (overrides RELAY_PORT)")
	f.StringVar(&c.flagStaticDir, "static-dir", "",
		"Static assets directory (overrides RELAY_STATIC_DIR)")

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}
	if c.flagPort != 0 {
		cfg.Port = c.flagPort
	}
	if c.flagStaticDir != "" {
		cfg.StaticDir = c.flagStaticDir
	}

	srv, err := c.buildServer(cfg)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error building server: %v", err))
		return 1
	}

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, srv)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	c.Log.Info("listening", "port", cfg.Port, "static_dir", cfg.StaticDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		c.UI.Error(fmt.Sprintf("server error: %v", err))
		return 1
	case sig := <-sigCh:
		c.Log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			c.UI.Error(fmt.Sprintf("error shutting down: %v", err))
			return 1
		}
	}

	return 0
}

// buildServer constructs one provider client per configured feature. An
// unconfigured feature leaves its provider nil, which disables only its
// endpoints.
func (c *Command) buildServer(cfg *config.Config) (server.Server, error) {
	srv := server.Server{
		Config: cfg,
		Logger: c.Log,
	}

	if cfg.WhatsApp.Configured() {
		messenger, err := whatsapp.NewClient(whatsapp.Config{
			Token:         cfg.WhatsApp.Token,
			PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
			Logger:        c.Log,
		})
		if err != nil {
			return srv, fmt.Errorf("error creating WhatsApp client: %w", err)
		}
		srv.Messenger = messenger
	}

	if cfg.Storage.Configured() {
		store, err := c.buildStorage(cfg)
		if err != nil {
			return srv, fmt.Errorf("error creating storage adapter: %w", err)
		}
		srv.Storage = store
	}

	if cfg.Google.IdentityConfigured() {
		// The service identity is built once here and reused for every
		// request.
		workspace, err := gworkspace.NewService(context.Background(),
			gworkspace.Config{
				ServiceAccountEmail: cfg.Google.ServiceAccountEmail,
				PrivateKey:          cfg.Google.PrivateKey,
				CalendarID:          cfg.Google.CalendarID,
				SpreadsheetID:       cfg.Google.SpreadsheetID,
				Logger:              c.Log,
			})
		if err != nil {
			return srv, fmt.Errorf("error creating workspace service: %w", err)
		}
		srv.Workspace = workspace
	}

	if cfg.Gemini.Configured() {
		gemini, err := llm.NewGeminiClient(llm.GeminiConfig{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
			Logger: c.Log,
		})
		if err != nil {
			return srv, fmt.Errorf("error creating Gemini client: %w", err)
		}
		srv.LLM = gemini
	}

	c.Log.Info("features configured",
		"whatsapp", srv.Messenger != nil,
		"storage", srv.Storage != nil,
		"workspace", srv.Workspace != nil,
		"llm", srv.LLM != nil,
	)

	return srv, nil
}

func (c *Command) buildStorage(cfg *config.Config) (storage.Provider, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		return s3.NewAdapter(&s3.Config{
			Bucket:        cfg.Storage.Bucket,
			Region:        cfg.Storage.S3.Region,
			AccessKey:     cfg.Storage.S3.AccessKey,
			SecretKey:     cfg.Storage.S3.SecretKey,
			Endpoint:      cfg.Storage.S3.Endpoint,
			PublicBaseURL: cfg.Storage.S3.PublicBaseURL,
			Logger:        c.Log,
		})
	case config.StorageBackendSupabase:
		return supabase.NewAdapter(supabase.Config{
			Endpoint:   cfg.Storage.Supabase.URL,
			ServiceKey: cfg.Storage.Supabase.ServiceKey,
			Bucket:     cfg.Storage.Bucket,
			Logger:     c.Log,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
