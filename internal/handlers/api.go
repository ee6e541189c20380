package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/common"
	"github.com/ternarybob/refcheck/internal/interfaces"
)

// APIHandler serves the system endpoints
type APIHandler struct {
	storage interfaces.StorageManager
	logger  arbor.ILogger
}

// NewAPIHandler creates the system handler. storage may be nil, in which case
// health reports the service without storage figures.
func NewAPIHandler(storage interfaces.StorageManager, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		storage: storage,
		logger:  logger,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"service":    "refcheck",
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// HealthHandler reports whether the report database is readable, with the
// number of stored reports and exports. An unreadable database is 503.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	resp := map[string]interface{}{"status": "ok"}
	if h.storage != nil {
		stats, err := h.storage.Stats(r.Context())
		if err != nil {
			h.logger.Warn().Err(err).Msg("Health check could not read storage")
			WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "degraded",
				"error":  "storage unavailable",
			})
			return
		}
		resp["storage"] = stats
	}

	WriteJSON(w, http.StatusOK, resp)
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
