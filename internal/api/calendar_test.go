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
	"google.golang.org/api/googleapi"

	"github.com/edstack/relay/internal/config"
	"github.com/edstack/relay/internal/server"
	"github.com/edstack/relay/pkg/gworkspace"
)

func TestCalendarCreateHandler(t *testing.T) {
	googleCfg := config.Google{CalendarID: "primary"}

	cases := map[string]struct {
		method    string
		body      string
		google    config.Google
		workspace *fakeWorkspace
		status    int
		wantErr   string
	}{
		"bad method": {
			method: "GET",
			google: googleCfg,
			status: http.StatusMethodNotAllowed,
		},
		"missing summary": {
			method: "POST",
			body: `{"startISO": "2026-08-24T17:00:00-03:00",
				"endISO": "2026-08-24T18:00:00-03:00"}`,
			google:    googleCfg,
			workspace: &fakeWorkspace{},
			status:    http.StatusBadRequest,
			wantErr:   "summary",
		},
		"identity not configured": {
			method: "POST",
			body: `{"summary": "Math class",
				"startISO": "2026-08-24T17:00:00-03:00",
				"endISO": "2026-08-24T18:00:00-03:00"}`,
			google:  googleCfg,
			status:  http.StatusBadRequest,
			wantErr: "calendar is not configured",
		},
		"calendar ID not configured": {
			method: "POST",
			body: `{"summary": "Math class",
				"startISO": "2026-08-24T17:00:00-03:00",
				"endISO": "2026-08-24T18:00:00-03:00"}`,
			workspace: &fakeWorkspace{},
			status:    http.StatusBadRequest,
			wantErr:   "calendar is not configured",
		},
		"upstream failure passes through": {
			method: "POST",
			body: `{"summary": "Math class",
				"startISO": "2026-08-24T17:00:00-03:00",
				"endISO": "2026-08-24T18:00:00-03:00"}`,
			google: googleCfg,
			workspace: &fakeWorkspace{
				err: &googleapi.Error{
					Code: http.StatusForbidden,
					Body: `{"error": {"message": "insufficient permissions"}}`,
				},
			},
			status:  http.StatusForbidden,
			wantErr: "insufficient permissions",
		},
		"success": {
			method: "POST",
			body: `{"summary": "Math class", "description": "Algebra review",
				"startISO": "2026-08-24T17:00:00-03:00",
				"endISO": "2026-08-24T18:00:00-03:00"}`,
			google: googleCfg,
			workspace: &fakeWorkspace{
				event: &gworkspace.EventResult{
					EventID:  "evt123",
					HTMLLink: "https://calendar.google.com/event?eid=evt123",
				},
			},
			status: http.StatusOK,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)

			srv := server.Server{
				Config: &config.Config{Google: c.google},
				Logger: hclog.NewNullLogger(),
			}
			if c.workspace != nil {
				srv.Workspace = c.workspace
			}

			w := httptest.NewRecorder()
			r := httptest.NewRequest(c.method, "/api/calendar/create",
				strings.NewReader(c.body))
			CalendarCreateHandler(srv).ServeHTTP(w, r)

			assert.Equal(c.status, w.Code)
			if c.wantErr != "" {
				var env errorEnvelope
				require.NoError(json.NewDecoder(w.Body).Decode(&env))
				assert.False(env.OK)
				assert.Contains(env.Error, c.wantErr)
			}
			if c.status == http.StatusOK {
				var resp map[string]interface{}
				require.NoError(json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(map[string]interface{}{
					"ok":       true,
					"eventId":  "evt123",
					"htmlLink": "https://calendar.google.com/event?eid=evt123",
				}, resp)

				// Timestamps are forwarded untouched.
				assert.Equal("2026-08-24T17:00:00-03:00", c.workspace.lastInput.StartISO)
				assert.Equal("2026-08-24T18:00:00-03:00", c.workspace.lastInput.EndISO)
			}
		})
	}
}
