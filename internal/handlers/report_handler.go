package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/models"
	"github.com/ternarybob/refcheck/internal/report"
)

const maxModelBytes = 8 << 20

// ReportHandler handles stored report models and their PDF exports
type ReportHandler struct {
	service interfaces.ReportService
	logger  arbor.ILogger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service interfaces.ReportService, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// ListReportsHandler handles GET /api/reports
func (h *ReportHandler) ListReportsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	records, err := h.service.ListReports(r.Context(), GetListOptions(r))
	if err != nil {
		h.writeServiceError(w, err, "Failed to list reports")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reports": records,
		"count":   len(records),
	})
}

// CreateReportHandler handles POST /api/reports - body is a JSON or YAML report model
func (h *ReportHandler) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	model, err := readModel(w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.CreateReport(r.Context(), model)
	if err != nil {
		h.writeServiceError(w, err, "Failed to store report")
		return
	}

	WriteJSON(w, http.StatusCreated, record)
}

// GetReportHandler handles GET /api/reports/{id}
func (h *ReportHandler) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := ExtractPathID(r.URL.Path, "/api/reports/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Missing report ID")
		return
	}

	record, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get report")
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// UpdateReportHandler handles PUT /api/reports/{id}
func (h *ReportHandler) UpdateReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "PUT") {
		return
	}

	id := ExtractPathID(r.URL.Path, "/api/reports/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Missing report ID")
		return
	}

	model, err := readModel(w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.UpdateReport(r.Context(), id, model)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update report")
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// DeleteReportHandler handles DELETE /api/reports/{id}
func (h *ReportHandler) DeleteReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	id := ExtractPathID(r.URL.Path, "/api/reports/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Missing report ID")
		return
	}

	if err := h.service.DeleteReport(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "Failed to delete report")
		return
	}

	WriteSuccess(w, "Report deleted")
}

// ExportReportHandler handles POST /api/reports/{id}/export?transcript=&signature=
func (h *ReportHandler) ExportReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	id := ExtractPathID(r.URL.Path, "/api/reports/")
	opts, err := GetExportOptions(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid export options")
		return
	}

	artifact, err := h.service.ExportStored(r.Context(), id, opts)
	if err != nil {
		h.writeServiceError(w, err, "Failed to export report")
		return
	}

	writeArtifact(w, artifact)
}

// LayoutReportHandler handles POST /api/reports/{id}/layout - returns the page plan without producing a PDF
func (h *ReportHandler) LayoutReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	id := ExtractPathID(r.URL.Path, "/api/reports/")
	opts, err := GetExportOptions(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid export options")
		return
	}

	record, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get report")
		return
	}

	preview, err := h.service.PreviewLayout(r.Context(), &record.Model, opts)
	if err != nil {
		h.writeServiceError(w, err, "Failed to lay out report")
		return
	}

	WriteJSON(w, http.StatusOK, preview)
}

// ExportHandler handles POST /api/export - renders the model in the request body without storing it
func (h *ReportHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	opts, err := GetExportOptions(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid export options")
		return
	}

	model, err := readModel(w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	artifact, err := h.service.Export(r.Context(), model, opts)
	if err != nil {
		h.writeServiceError(w, err, "Failed to export report")
		return
	}

	writeArtifact(w, artifact)
}

// writeServiceError maps service errors onto HTTP status codes
func (h *ReportHandler) writeServiceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, report.ErrMissingRequiredData):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interfaces.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Report not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteError(w, http.StatusServiceUnavailable, "Request cancelled")
	case errors.Is(err, report.ErrExportFailed):
		h.logger.Error().Err(err).Msg(msg)
		WriteError(w, http.StatusInternalServerError, "export failed")
	default:
		h.logger.Error().Err(err).Msg(msg)
		WriteError(w, http.StatusInternalServerError, msg)
	}
}

// readModel decodes the request body as YAML when the content type says so, JSON otherwise
func readModel(w http.ResponseWriter, r *http.Request) (*models.ReportContentModel, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxModelBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("request body is empty")
	}

	ext := ".json"
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		ext = ".yaml"
	}

	model, err := models.ParseReport(data, ext)
	if err != nil {
		return nil, err
	}
	return model, nil
}

func writeArtifact(w http.ResponseWriter, artifact *models.ExportArtifact) {
	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Content)))
	w.Header().Set("X-Page-Count", strconv.Itoa(artifact.PageCount))
	if artifact.ExportID != "" {
		w.Header().Set("X-Export-ID", artifact.ExportID)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(artifact.Content)
}
