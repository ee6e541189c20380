package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/services/retention"
)

// Pruner runs one retention pass over the export history
type Pruner interface {
	Prune(ctx context.Context) (*retention.PruneStats, error)
}

// ExportHistoryHandler serves the export history and on-demand pruning
type ExportHistoryHandler struct {
	service interfaces.ReportService
	pruner  Pruner
	logger  arbor.ILogger
}

// NewExportHistoryHandler creates a new export history handler
func NewExportHistoryHandler(service interfaces.ReportService, pruner Pruner, logger arbor.ILogger) *ExportHistoryHandler {
	return &ExportHistoryHandler{
		service: service,
		pruner:  pruner,
		logger:  logger,
	}
}

// ListExportsHandler handles GET /api/exports
func (h *ExportHistoryHandler) ListExportsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	records, err := h.service.ListExports(r.Context(), GetListOptions(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list exports")
		WriteError(w, http.StatusInternalServerError, "Failed to list exports")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"exports": records,
		"count":   len(records),
	})
}

// GetExportHandler handles GET /api/exports/{id}
func (h *ExportHistoryHandler) GetExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := ExtractPathID(r.URL.Path, "/api/exports/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Missing export ID")
		return
	}

	record, err := h.service.GetExport(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Export not found")
			return
		}
		h.logger.Error().Err(err).Str("export_id", id).Msg("Failed to get export")
		WriteError(w, http.StatusInternalServerError, "Failed to get export")
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// PruneExportsHandler handles POST /api/exports/prune - runs retention now instead of waiting for the schedule
func (h *ExportHistoryHandler) PruneExportsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	if h.pruner == nil {
		WriteError(w, http.StatusConflict, retention.ErrDisabled.Error())
		return
	}

	stats, err := h.pruner.Prune(r.Context())
	switch {
	case errors.Is(err, retention.ErrDisabled):
		WriteError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("Retention run failed")
		WriteError(w, http.StatusInternalServerError, "Retention run failed")
		return
	}

	h.logger.Info().
		Int("removed", stats.Removed).
		Int("files_removed", stats.FilesRemoved).
		Int("errors", stats.Errors).
		Msg("Retention run requested over HTTP completed")
	WriteJSON(w, http.StatusOK, stats)
}
