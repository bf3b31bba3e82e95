package api

import (
	"net/http"

	"github.com/edstack/relay/internal/server"
	"github.com/edstack/relay/internal/version"
)

// HealthResponse reports process liveness.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HealthHandler answers liveness probes.
func HealthHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, "GET") {
			return
		}

		respondJSON(w, srv.Logger, http.StatusOK, HealthResponse{
			OK:      true,
			Status:  "ok",
			Version: version.Version,
		})
	})
}
