package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/app"
	"github.com/ternarybob/refcheck/internal/common"
)

const reportJSON = `{
  "subject": {"name": "Jane Doe", "role": "Senior Software Engineer"},
  "counterpart": {"name": "Mark Ellis", "relationship": "Former manager", "organization": "Northwind"},
  "session_details": {"mode": "voice", "duration_seconds": 1520, "turns_count": 34},
  "executive_summary": "Mark describes Jane as one of the strongest engineers on the platform team.",
  "key_findings": {"strengths": ["Ownership"], "concerns": [], "neutral_observations": []},
  "category_breakdown": [{"category": "Technical Skills", "score": 9, "max_score": 10, "summary": "Strong."}],
  "conversation_highlights": [],
  "red_flags": [],
  "verification_items": [{"claim": "Worked at Northwind", "verified": true}],
  "recommendation": {"overall_score": 84, "label": "strongly-recommend", "confidence_level": 0.85, "reasoning_summary": "Consistent."}
}`

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	config := common.NewDefaultConfig()
	config.Storage.Badger.Path = filepath.Join(t.TempDir(), "db")
	config.Render.OutputDir = filepath.Join(t.TempDir(), "exports")
	config.Limits.ExportsPerMinute = 0

	application, err := app.New(config, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	return New(application).Handler()
}

func TestServer_HealthAndVersion(t *testing.T) {
	h := newTestServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
	assert.Contains(t, w.Body.String(), `"backend":"badger"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/version", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/nothing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_ExportEndToEnd(t *testing.T) {
	h := newTestServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/reports", strings.NewReader(reportJSON)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/reports/"+created.ID+"/export?signature=true", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Reference_Check_Jane_Doe_")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/exports", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.ID)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/reports/"+created.ID+"/layout", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"commands"`)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/reports/"+created.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/reports/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_RequestIDIsEchoed(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/version", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestServer_PruneExports(t *testing.T) {
	h := newTestServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/exports/prune", nil))
	assert.Equal(t, http.StatusConflict, w.Code, "retention is off by default")
	assert.Contains(t, w.Body.String(), "retention is disabled")

	config := common.NewDefaultConfig()
	config.Storage.Badger.Path = filepath.Join(t.TempDir(), "db")
	config.Render.OutputDir = filepath.Join(t.TempDir(), "exports")
	config.Limits.ExportsPerMinute = 0
	config.Retention.Enabled = true
	application, err := app.New(config, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })
	h = New(application).Handler()

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/export", strings.NewReader(reportJSON)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/exports/prune", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"removed":0`, "a fresh export is inside the 30 day window")
}

func TestServer_AdHocExportValidation(t *testing.T) {
	h := newTestServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/export", strings.NewReader(`{"executive_summary": "x"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing required report data")
}

func TestServer_MethodRouting(t *testing.T) {
	h := newTestServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("PATCH", "/api/reports", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/export", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/shutdown", nil))
	assert.Equal(t, http.StatusForbidden, w.Code, "no shutdown channel configured")
}
