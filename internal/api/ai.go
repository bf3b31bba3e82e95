package api

import (
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/edstack/relay/internal/server"
)

// AIGenerateRequest contains the free-text prompt.
type AIGenerateRequest struct {
	Prompt string `json:"prompt"`
}

// Validate checks the request shape.
func (req AIGenerateRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Prompt, validation.Required),
	)
}

// AIGenerateResponse carries the extracted generated text only, not the
// full provider response.
type AIGenerateResponse struct {
	OK   bool   `json:"ok"`
	Text string `json:"text"`
}

// AIGenerateHandler forwards a prompt to the generative text provider.
func AIGenerateHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, "POST") {
			return
		}
		log := requestLogger(srv, r)

		var req AIGenerateRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Error("error decoding generate request", "error", err)
			respondError(w, log, http.StatusBadRequest,
				fmt.Sprintf("bad request: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			respondError(w, log, http.StatusBadRequest, err.Error())
			return
		}

		if srv.LLM == nil {
			respondConfigError(w, log, "text generation")
			return
		}

		text, err := srv.LLM.GenerateText(r.Context(), req.Prompt)
		if err != nil {
			relayError(w, log, err)
			return
		}

		respondJSON(w, log, http.StatusOK, AIGenerateResponse{
			OK:   true,
			Text: text,
		})
	})
}
