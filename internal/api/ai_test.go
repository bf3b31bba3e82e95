package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edstack/relay/internal/config"
	"github.com/edstack/relay/internal/server"
	"github.com/edstack/relay/pkg/upstream"
)

func TestAIGenerateHandler(t *testing.T) {
	cases := map[string]struct {
		method   string
		body     string
		llm      *fakeLLM
		status   int
		wantErr  string
		wantText string
	}{
		"bad method": {
			method: "GET",
			status: http.StatusMethodNotAllowed,
		},
		"missing prompt": {
			method:  "POST",
			body:    `{}`,
			llm:     &fakeLLM{},
			status:  http.StatusBadRequest,
			wantErr: "prompt",
		},
		"not configured": {
			method:  "POST",
			body:    `{"prompt": "write a lesson plan"}`,
			status:  http.StatusBadRequest,
			wantErr: "text generation is not configured",
		},
		"upstream failure passes through": {
			method: "POST",
			body:   `{"prompt": "write a lesson plan"}`,
			llm: &fakeLLM{
				err: upstream.NewError("gemini", http.StatusTooManyRequests,
					[]byte(`{"error": {"message": "quota exceeded"}}`)),
			},
			status:  http.StatusTooManyRequests,
			wantErr: "quota exceeded",
		},
		"empty answer is still a success": {
			method:   "POST",
			body:     `{"prompt": "write a lesson plan"}`,
			llm:      &fakeLLM{text: ""},
			status:   http.StatusOK,
			wantText: "",
		},
		"success": {
			method:   "POST",
			body:     `{"prompt": "write a lesson plan"}`,
			llm:      &fakeLLM{text: "Lesson plan: 1. Warm-up..."},
			status:   http.StatusOK,
			wantText: "Lesson plan: 1. Warm-up...",
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)

			srv := server.Server{
				Config: &config.Config{},
				Logger: hclog.NewNullLogger(),
			}
			if c.llm != nil {
				srv.LLM = c.llm
			}

			w := httptest.NewRecorder()
			r := httptest.NewRequest(c.method, "/api/ai/generate",
				strings.NewReader(c.body))
			AIGenerateHandler(srv).ServeHTTP(w, r)

			assert.Equal(c.status, w.Code)
			if c.wantErr != "" {
				var env errorEnvelope
				require.NoError(json.NewDecoder(w.Body).Decode(&env))
				assert.False(env.OK)
				assert.Contains(env.Error, c.wantErr)
			}
			if c.status == http.StatusOK {
				var resp AIGenerateResponse
				require.NoError(json.NewDecoder(w.Body).Decode(&resp))
				assert.True(resp.OK)
				assert.Equal(c.wantText, resp.Text)
				assert.Equal("write a lesson plan", c.llm.lastPrompt)
			}
		})
	}
}
