package serve

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoint(t *testing.T) {
	srv := NewServer(t.TempDir(), 8750, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestServesProfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Decision Profile</h1>"), 0o644))
	srv := NewServer(dir, 8750, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Decision Profile")

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/missing.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegenerate(t *testing.T) {
	calls := 0
	srv := NewServer(t.TempDir(), 8750, func() error {
		calls++
		return nil
	})
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("POST", "/api/regenerate", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)

	failing := NewServer(t.TempDir(), 8750, func() error { return errors.New("boom") })
	w = httptest.NewRecorder()
	failing.Handler().ServeHTTP(w, httptest.NewRequest("POST", "/api/regenerate", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	disabled := NewServer(t.TempDir(), 8750, nil)
	w = httptest.NewRecorder()
	disabled.Handler().ServeHTTP(w, httptest.NewRequest("POST", "/api/regenerate", nil))
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
