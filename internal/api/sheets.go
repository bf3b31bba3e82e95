package api

import (
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/edstack/relay/internal/server"
)

// SheetsAppendRequest contains a range descriptor (sheet name plus cell
// range, e.g. "Attendance!A:D") and a rectangular grid of cell values.
type SheetsAppendRequest struct {
	Range  string          `json:"range"`
	Values [][]interface{} `json:"values"`
}

// Validate checks the request shape.
func (req SheetsAppendRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Range, validation.Required),
		validation.Field(&req.Values, validation.Required),
	)
}

// SheetsAppendResponse echoes the provider's append result.
type SheetsAppendResponse struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data"`
}

// SheetsAppendHandler appends rows to the configured spreadsheet.
func SheetsAppendHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, "POST") {
			return
		}
		log := requestLogger(srv, r)

		var req SheetsAppendRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Error("error decoding sheets request", "error", err)
			respondError(w, log, http.StatusBadRequest,
				fmt.Sprintf("bad request: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			respondError(w, log, http.StatusBadRequest, err.Error())
			return
		}

		if srv.Workspace == nil || srv.Config.Google.SpreadsheetID == "" {
			respondConfigError(w, log, "sheets")
			return
		}

		result, err := srv.Workspace.AppendValues(r.Context(), req.Range, req.Values)
		if err != nil {
			relayError(w, log, err)
			return
		}

		respondJSON(w, log, http.StatusOK, SheetsAppendResponse{
			OK:   true,
			Data: result,
		})
	})
}
