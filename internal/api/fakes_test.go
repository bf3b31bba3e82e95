package api

import (
	"context"
	"encoding/json"

	"google.golang.org/api/sheets/v4"

	"github.com/edstack/relay/pkg/gworkspace"
	"github.com/edstack/relay/pkg/storage"
	"github.com/edstack/relay/pkg/whatsapp"
)

type fakeSender struct {
	lastMsg whatsapp.Message
	data    json.RawMessage
	err     error
}

func (f *fakeSender) Send(
	_ context.Context, msg whatsapp.Message,
) (json.RawMessage, error) {
	f.lastMsg = msg
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeStorage struct {
	lastKey string
	signed  *storage.SignedUpload
	err     error
	bucket  string
	baseURL string
}

func (f *fakeStorage) SignUpload(
	_ context.Context, key string,
) (*storage.SignedUpload, error) {
	f.lastKey = key
	if f.err != nil {
		return nil, f.err
	}
	return f.signed, nil
}

func (f *fakeStorage) PublicURL(path string) string {
	return f.baseURL + "/" + path
}

func (f *fakeStorage) Bucket() string {
	return f.bucket
}

type fakeWorkspace struct {
	lastInput  gworkspace.EventInput
	lastRange  string
	lastValues [][]interface{}
	event      *gworkspace.EventResult
	appendResp *sheets.AppendValuesResponse
	err        error
}

func (f *fakeWorkspace) CreateEvent(
	_ context.Context, in gworkspace.EventInput,
) (*gworkspace.EventResult, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeWorkspace) AppendValues(
	_ context.Context, valueRange string, values [][]interface{},
) (*sheets.AppendValuesResponse, error) {
	f.lastRange = valueRange
	f.lastValues = values
	if f.err != nil {
		return nil, f.err
	}
	return f.appendResp, nil
}

type fakeLLM struct {
	lastPrompt string
	text       string
	err        error
}

func (f *fakeLLM) GenerateText(
	_ context.Context, prompt string,
) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}
