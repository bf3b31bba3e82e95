package api

import (
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/edstack/relay/internal/server"
	"github.com/edstack/relay/pkg/gworkspace"
)

// CalendarCreateRequest contains the fields that are allowed to make the
// POST request. Timestamps are ISO 8601 and forwarded unmodified.
type CalendarCreateRequest struct {
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	StartISO    string `json:"startISO"`
	EndISO      string `json:"endISO"`
}

// Validate checks the request shape.
func (req CalendarCreateRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Summary, validation.Required),
		validation.Field(&req.StartISO, validation.Required),
		validation.Field(&req.EndISO, validation.Required),
	)
}

// CalendarCreateResponse exposes the created event's identifier and
// viewable link, nothing else.
type CalendarCreateResponse struct {
	OK       bool   `json:"ok"`
	EventID  string `json:"eventId"`
	HTMLLink string `json:"htmlLink"`
}

// CalendarCreateHandler inserts an event into the configured calendar.
func CalendarCreateHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, "POST") {
			return
		}
		log := requestLogger(srv, r)

		var req CalendarCreateRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Error("error decoding calendar request", "error", err)
			respondError(w, log, http.StatusBadRequest,
				fmt.Sprintf("bad request: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			respondError(w, log, http.StatusBadRequest, err.Error())
			return
		}

		if srv.Workspace == nil || srv.Config.Google.CalendarID == "" {
			respondConfigError(w, log, "calendar")
			return
		}

		result, err := srv.Workspace.CreateEvent(r.Context(), gworkspace.EventInput{
			Summary:     req.Summary,
			Description: req.Description,
			StartISO:    req.StartISO,
			EndISO:      req.EndISO,
		})
		if err != nil {
			relayError(w, log, err)
			return
		}

		respondJSON(w, log, http.StatusOK, CalendarCreateResponse{
			OK:       true,
			EventID:  result.EventID,
			HTMLLink: result.HTMLLink,
		})
	})
}
