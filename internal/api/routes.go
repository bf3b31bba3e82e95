package api

import (
	"net/http"

	"github.com/edstack/relay/internal/server"
)

// RegisterRoutes attaches every relay endpoint plus static frontend serving
// to the mux.
func RegisterRoutes(mux *http.ServeMux, srv server.Server) {
	logged := func(h http.Handler) http.Handler {
		return WithRequestLogging(srv.Logger, h)
	}

	mux.Handle("/health", HealthHandler(srv))
	mux.Handle("/api/whatsapp/send", logged(WhatsAppSendHandler(srv)))
	mux.Handle("/api/materials/sign-url", logged(MaterialsSignURLHandler(srv)))
	mux.Handle("/api/materials/public-url", logged(MaterialsPublicURLHandler(srv)))
	mux.Handle("/api/calendar/create", logged(CalendarCreateHandler(srv)))
	mux.Handle("/api/sheets/append", logged(SheetsAppendHandler(srv)))
	mux.Handle("/api/ai/generate", logged(AIGenerateHandler(srv)))

	// Root serves the frontend entry page; everything else under / is a
	// static asset.
	mux.Handle("/", http.FileServer(http.Dir(srv.Config.StaticDir)))
}
