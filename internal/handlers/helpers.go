package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a standard success JSON response.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// GetListOptions extracts limit/offset from the query string.
// limit defaults to 50 and is capped at 200.
func GetListOptions(r *http.Request) *interfaces.ListOptions {
	opts := &interfaces.ListOptions{Limit: 50}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = min(l, 200)
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			opts.Offset = o
		}
	}
	return opts
}

// GetExportOptions reads the transcript/signature toggles from the query string
func GetExportOptions(r *http.Request) (models.ExportOptions, error) {
	var opts models.ExportOptions
	var err error

	if v := r.URL.Query().Get("transcript"); v != "" {
		if opts.IncludeTranscript, err = strconv.ParseBool(v); err != nil {
			return opts, err
		}
	}
	if v := r.URL.Query().Get("signature"); v != "" {
		if opts.IncludeSignature, err = strconv.ParseBool(v); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// ExtractPathID returns the first path segment after prefix.
// Example: ExtractPathID("/api/reports/rpt_1/export", "/api/reports/") -> "rpt_1"
func ExtractPathID(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if idx := strings.Index(rest, "/"); idx >= 0 {
		rest = rest[:idx]
	}
	return rest
}
