package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/edstack/relay/internal/server"
	"github.com/edstack/relay/pkg/whatsapp"
)

// WhatsAppSendRequest contains the fields that are allowed to make the POST
// request. TemplateName and Text are mutually exclusive modes; TemplateName
// wins when present.
type WhatsAppSendRequest struct {
	To             string   `json:"to"`
	Text           string   `json:"text,omitempty"`
	TemplateName   string   `json:"templateName,omitempty"`
	TemplateParams []string `json:"templateParams,omitempty"`
}

// Validate checks the request shape.
func (req WhatsAppSendRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.To, validation.Required),
		validation.Field(&req.Text,
			validation.Required.When(req.TemplateName == "").
				Error("either text or templateName is required")),
	)
}

// message resolves the tagged union into a concrete sendable message.
func (req WhatsAppSendRequest) message() whatsapp.Message {
	if req.TemplateName != "" {
		return whatsapp.TemplateMessage{
			To:     req.To,
			Name:   req.TemplateName,
			Params: req.TemplateParams,
		}
	}
	return whatsapp.TextMessage{
		To:   req.To,
		Body: req.Text,
	}
}

// WhatsAppSendResponse relays the provider's response body verbatim.
type WhatsAppSendResponse struct {
	OK   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
}

// WhatsAppSendHandler forwards a message to the WhatsApp Cloud API.
func WhatsAppSendHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, "POST") {
			return
		}
		log := requestLogger(srv, r)

		var req WhatsAppSendRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Error("error decoding send request", "error", err)
			respondError(w, log, http.StatusBadRequest,
				fmt.Sprintf("bad request: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			respondError(w, log, http.StatusBadRequest, err.Error())
			return
		}

		if srv.Messenger == nil {
			respondConfigError(w, log, "WhatsApp messaging")
			return
		}

		data, err := srv.Messenger.Send(r.Context(), req.message())
		if err != nil {
			relayError(w, log, err)
			return
		}

		respondJSON(w, log, http.StatusOK, WhatsAppSendResponse{
			OK:   true,
			Data: data,
		})
	})
}
