// Package api contains the HTTP handlers of the relay. Every handler is a
// stateless single-hop proxy: decode, check configuration, forward one
// upstream call, answer with the uniform envelope.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/edstack/relay/internal/server"
	"github.com/edstack/relay/pkg/upstream"
)

// errorEnvelope is the uniform failure response.
type errorEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// decodeRequest decodes the JSON request body into v.
func decodeRequest(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("error decoding request body: %w", err)
	}
	return nil
}

// respondJSON writes v as the JSON response body with the given status.
func respondJSON(w http.ResponseWriter, log hclog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding response", "error", err)
	}
}

// respondError writes the failure envelope with the given status.
func respondError(w http.ResponseWriter, log hclog.Logger, status int, msg string) {
	respondJSON(w, log, status, errorEnvelope{OK: false, Error: msg})
}

// respondConfigError answers a request for a feature whose provider is not
// configured. The upstream is never contacted in this case.
func respondConfigError(w http.ResponseWriter, log hclog.Logger, feature string) {
	respondError(w, log, http.StatusBadRequest,
		fmt.Sprintf("%s is not configured", feature))
}

// relayError translates a provider call failure into the failure envelope:
// upstream failures keep the provider's status and body, everything else is
// a local 500.
func relayError(w http.ResponseWriter, log hclog.Logger, err error) {
	if status, body, ok := upstream.Status(err); ok {
		log.Error("upstream call failed", "status", status, "error", err)
		respondError(w, log, status, body)
		return
	}

	log.Error("local call failure", "error", err)
	respondError(w, log, http.StatusInternalServerError, err.Error())
}

// requireMethod rejects requests with the wrong method. Returns false when
// the request was already answered.
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// requestLogger returns a per-request named logger carrying a request ID,
// method and path.
func requestLogger(srv server.Server, r *http.Request) hclog.Logger {
	return srv.Logger.With(
		"request_id", uuid.New().String(),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// WithRequestLogging logs every request with its duration and the
// handler-observed start time.
func WithRequestLogging(log hclog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
