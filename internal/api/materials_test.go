package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edstack/relay/internal/config"
	"github.com/edstack/relay/internal/server"
	"github.com/edstack/relay/pkg/storage"
	"github.com/edstack/relay/pkg/upstream"
)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1724500000000)
	assert.Equal(t, "1724500000000-notes.pdf", objectKey(now, "notes.pdf"))
}

func TestMaterialsSignURLHandler(t *testing.T) {
	cases := map[string]struct {
		method  string
		body    string
		storage *fakeStorage
		status  int
		wantErr string
	}{
		"bad method": {
			method: "GET",
			status: http.StatusMethodNotAllowed,
		},
		"missing file name": {
			method:  "POST",
			body:    `{}`,
			storage: &fakeStorage{},
			status:  http.StatusBadRequest,
			wantErr: "fileName",
		},
		"not configured": {
			method:  "POST",
			body:    `{"fileName": "notes.pdf"}`,
			status:  http.StatusBadRequest,
			wantErr: "storage is not configured",
		},
		"upstream failure passes through": {
			method: "POST",
			body:   `{"fileName": "notes.pdf"}`,
			storage: &fakeStorage{
				err: upstream.NewError("supabase", http.StatusForbidden,
					[]byte(`{"message": "bucket not found"}`)),
			},
			status:  http.StatusForbidden,
			wantErr: "bucket not found",
		},
		"success": {
			method: "POST",
			body:   `{"fileName": "notes.pdf"}`,
			storage: &fakeStorage{
				bucket: "materials",
				signed: &storage.SignedUpload{
					SignedURL: "https://store.example.com/sign/abc",
					Token:     "tok",
					Path:      "1-notes.pdf",
				},
			},
			status: http.StatusOK,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)

			srv := server.Server{
				Config: &config.Config{},
				Logger: hclog.NewNullLogger(),
			}
			if c.storage != nil {
				srv.Storage = c.storage
			}

			w := httptest.NewRecorder()
			r := httptest.NewRequest(c.method, "/api/materials/sign-url",
				strings.NewReader(c.body))
			MaterialsSignURLHandler(srv).ServeHTTP(w, r)

			assert.Equal(c.status, w.Code)
			if c.wantErr != "" {
				var env errorEnvelope
				require.NoError(json.NewDecoder(w.Body).Decode(&env))
				assert.False(env.OK)
				assert.Contains(env.Error, c.wantErr)
			}
			if c.status == http.StatusOK {
				var resp MaterialsSignURLResponse
				require.NoError(json.NewDecoder(w.Body).Decode(&resp))
				assert.True(resp.OK)
				assert.Equal(c.storage.signed.SignedURL, resp.SignedURL)
				assert.Equal(c.storage.signed.Token, resp.Token)
				assert.Equal(c.storage.signed.Path, resp.Path)
				assert.Equal("materials", resp.Bucket)

				// The key handed to the backend is timestamp-prefixed.
				assert.Regexp(`^\d+-notes\.pdf$`, c.storage.lastKey)
			}
		})
	}
}

func TestMaterialsPublicURLHandler(t *testing.T) {
	cases := map[string]struct {
		method  string
		body    string
		storage *fakeStorage
		status  int
		wantErr string
		wantURL string
	}{
		"bad method": {
			method: "GET",
			status: http.StatusMethodNotAllowed,
		},
		"missing path": {
			method:  "POST",
			body:    `{}`,
			storage: &fakeStorage{},
			status:  http.StatusBadRequest,
			wantErr: "path",
		},
		"not configured": {
			method:  "POST",
			body:    `{"path": "1-notes.pdf"}`,
			status:  http.StatusBadRequest,
			wantErr: "storage is not configured",
		},
		"success": {
			method: "POST",
			body:   `{"path": "1-notes.pdf"}`,
			storage: &fakeStorage{
				baseURL: "https://store.example.com/public/materials",
			},
			status:  http.StatusOK,
			wantURL: "https://store.example.com/public/materials/1-notes.pdf",
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)

			srv := server.Server{
				Config: &config.Config{},
				Logger: hclog.NewNullLogger(),
			}
			if c.storage != nil {
				srv.Storage = c.storage
			}

			w := httptest.NewRecorder()
			r := httptest.NewRequest(c.method, "/api/materials/public-url",
				strings.NewReader(c.body))
			MaterialsPublicURLHandler(srv).ServeHTTP(w, r)

			assert.Equal(c.status, w.Code)
			if c.wantErr != "" {
				var env errorEnvelope
				require.NoError(json.NewDecoder(w.Body).Decode(&env))
				assert.False(env.OK)
				assert.Contains(env.Error, c.wantErr)
			}
			if c.status == http.StatusOK {
				var resp MaterialsPublicURLResponse
				require.NoError(json.NewDecoder(w.Body).Decode(&resp))
				assert.True(resp.OK)
				assert.Equal(c.wantURL, resp.URL)
			}
		})
	}
}
