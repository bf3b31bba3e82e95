package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edstack/relay/internal/config"
	"github.com/edstack/relay/internal/server"
)

func TestHealthHandler(t *testing.T) {
	srv := server.Server{
		Config: &config.Config{},
		Logger: hclog.NewNullLogger(),
	}

	t.Run("bad method", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/health", nil)
		HealthHandler(srv).ServeHTTP(w, r)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/health", nil)
		HealthHandler(srv).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.True(t, resp.OK)
		assert.Equal(t, "ok", resp.Status)
		assert.NotEmpty(t, resp.Version)
	})
}
