// Package whatsapp implements a client for the WhatsApp Cloud API send
// endpoint. Messages are either free-text or template-based; the two forms
// are distinct types so the payload shape is decided at construction time.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/edstack/relay/pkg/upstream"
)

const defaultLanguage = "en_US"

// Sender is the surface the API layer depends on.
type Sender interface {
	Send(ctx context.Context, msg Message) (json.RawMessage, error)
}

// Client sends messages through the WhatsApp Cloud API.
type Client struct {
	token         string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
	logger        hclog.Logger
}

// Config holds configuration for the WhatsApp client.
type Config struct {
	Token         string        // Bearer token
	PhoneNumberID string        // Sender phone number ID
	BaseURL       string        // Base URL (default: https://graph.facebook.com/v20.0)
	Timeout       time.Duration // HTTP timeout (default: 30s)
	Logger        hclog.Logger  // Logger (optional)
}

var _ Sender = (*Client)(nil)

// NewClient creates a new WhatsApp Cloud API client.
func NewClient(config Config) (*Client, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("WhatsApp token is required")
	}
	if config.PhoneNumberID == "" {
		return nil, fmt.Errorf("WhatsApp phone number ID is required")
	}

	if config.BaseURL == "" {
		config.BaseURL = "https://graph.facebook.com/v20.0"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Logger == nil {
		config.Logger = hclog.NewNullLogger()
	}

	return &Client{
		token:         config.Token,
		phoneNumberID: config.PhoneNumberID,
		baseURL:       config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: config.Logger.Named("whatsapp-client"),
	}, nil
}

// Message is a sendable WhatsApp message. Implemented by TextMessage and
// TemplateMessage.
type Message interface {
	payload() sendPayload
}

// TextMessage is a free-text message.
type TextMessage struct {
	To   string
	Body string
}

func (m TextMessage) payload() sendPayload {
	return sendPayload{
		MessagingProduct: "whatsapp",
		To:               m.To,
		Type:             "text",
		Text:             &textPayload{Body: m.Body},
	}
}

// TemplateMessage is a message built from a pre-approved template with an
// ordered list of body parameters.
type TemplateMessage struct {
	To       string
	Name     string
	Params   []string
	Language string // BCP-47 code, defaults to en_US
}

func (m TemplateMessage) payload() sendPayload {
	lang := m.Language
	if lang == "" {
		lang = defaultLanguage
	}

	parameters := make([]templateParameter, 0, len(m.Params))
	for _, p := range m.Params {
		parameters = append(parameters, templateParameter{Type: "text", Text: p})
	}

	components := []templateComponent{}
	if len(parameters) > 0 {
		components = append(components, templateComponent{
			Type:       "body",
			Parameters: parameters,
		})
	}

	return sendPayload{
		MessagingProduct: "whatsapp",
		To:               m.To,
		Type:             "template",
		Template: &templatePayload{
			Name:       m.Name,
			Language:   templateLanguage{Code: lang},
			Components: components,
		},
	}
}

// Send forwards the message to the Cloud API send endpoint and returns the
// provider's response body verbatim. A non-2xx provider status is returned
// as an *upstream.Error carrying the provider's status and body.
func (c *Client) Send(ctx context.Context, msg Message) (json.RawMessage, error) {
	reqJSON, err := json.Marshal(msg.payload())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstream.NewError("whatsapp", resp.StatusCode, respBody)
	}

	c.logger.Debug("message sent", "to_type", fmt.Sprintf("%T", msg))

	return respBody, nil
}

// Cloud API payload types.

type sendPayload struct {
	MessagingProduct string           `json:"messaging_product"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             *textPayload     `json:"text,omitempty"`
	Template         *templatePayload `json:"template,omitempty"`
}

type textPayload struct {
	Body string `json:"body"`
}

type templatePayload struct {
	Name       string              `json:"name"`
	Language   templateLanguage    `json:"language"`
	Components []templateComponent `json:"components"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	Parameters []templateParameter `json:"parameters"`
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
