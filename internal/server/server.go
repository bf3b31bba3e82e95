package server

import (
	"github.com/hashicorp/go-hclog"

	"github.com/edstack/relay/internal/config"
	"github.com/edstack/relay/pkg/gworkspace"
	"github.com/edstack/relay/pkg/llm"
	"github.com/edstack/relay/pkg/storage"
	"github.com/edstack/relay/pkg/whatsapp"
)

// Server is the dependency bag handed to every handler. It is constructed
// once at startup; all fields are read-only afterwards and safe for
// concurrent use. A nil provider means that feature is not configured and
// its endpoints answer with a configuration error.
type Server struct {
	// Config is the config for the server.
	Config *config.Config

	// Logger is the logger for the server.
	Logger hclog.Logger

	// Messenger is the WhatsApp Cloud API client.
	Messenger whatsapp.Sender

	// Storage is the object storage backend (Supabase, S3, etc).
	Storage storage.Provider

	// Workspace is the Google Calendar/Sheets service identity.
	Workspace gworkspace.Provider

	// LLM is the generative text client.
	LLM llm.Client
}
