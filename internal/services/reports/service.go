// -----------------------------------------------------------------------
// Report Service - stored report models, PDF exports and export history
// -----------------------------------------------------------------------

package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/common"
	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/models"
	"github.com/ternarybob/refcheck/internal/report"
	"github.com/ternarybob/refcheck/internal/services/pdf"
)

const contentTypePDF = "application/pdf"

// Service provides business logic for report models and their exports
type Service struct {
	compositor *report.Compositor
	reports    interfaces.ReportStorage
	exports    interfaces.ExportStorage
	inspector  interfaces.PDFInspector
	config     common.RenderConfig
	logger     arbor.ILogger
	now        func() time.Time
}

// Compile-time interface assertion
var _ interfaces.ReportService = (*Service)(nil)

// NewService creates a new report service. storage may be nil, in which case
// stored reports are unavailable and exports are not recorded.
func NewService(
	compositor *report.Compositor,
	storage interfaces.StorageManager,
	inspector interfaces.PDFInspector,
	config common.RenderConfig,
	logger arbor.ILogger,
) *Service {
	s := &Service{
		compositor: compositor,
		inspector:  inspector,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
	if storage != nil {
		s.reports = storage.ReportStorage()
		s.exports = storage.ExportStorage()
	}
	return s
}

// NewCompositor builds a compositor from the [render] configuration
func NewCompositor(config common.RenderConfig, logger arbor.ILogger) (*report.Compositor, error) {
	width, height, err := config.PageDimensions()
	if err != nil {
		return nil, err
	}

	layout := report.Layout{
		PageWidth:    width,
		PageHeight:   height,
		MarginTop:    config.MarginTop,
		MarginBottom: config.MarginBottom,
		MarginLeft:   config.MarginLeft,
		MarginRight:  config.MarginRight,
		HeaderHeight: config.HeaderHeight,
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render layout: %w", err)
	}

	return report.NewCompositor(report.Config{
		ReportKind:      config.ReportKind,
		Title:           config.Title,
		Confidentiality: config.Confidentiality,
		Author:          config.Author,
		Layout:          layout,
	}, logger), nil
}

// WithClock replaces the time source used for record timestamps
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Export renders an ad-hoc model
func (s *Service) Export(ctx context.Context, model *models.ReportContentModel, opts models.ExportOptions) (*models.ExportArtifact, error) {
	return s.export(ctx, "", model, opts)
}

// ExportStored renders the stored report with the given ID
func (s *Service) ExportStored(ctx context.Context, id string, opts models.ExportOptions) (*models.ExportArtifact, error) {
	record, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.export(ctx, record.ID, &record.Model, opts)
}

func (s *Service) export(ctx context.Context, reportID string, model *models.ReportContentModel, opts models.ExportOptions) (*models.ExportArtifact, error) {
	// Cancellation is only honoured before rendering starts
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model = s.prepare(model)

	width, height, err := s.config.PageDimensions()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", report.ErrExportFailed, err)
	}
	surface := pdf.NewSurface(width, height, s.logger).WithCreationDate(s.now())

	result, err := s.compositor.Compose(surface, model, opts)
	if err != nil {
		s.logRenderError(err, model, reportID)
		return nil, err
	}

	var buf bytes.Buffer
	if err := surface.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", report.ErrExportFailed, err)
	}
	content := buf.Bytes()

	if s.inspector != nil {
		meta, err := s.inspector.Inspect(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("%w: rendered document failed validation: %w", report.ErrExportFailed, err)
		}
		if meta.PageCount != result.Pages {
			return nil, fmt.Errorf("%w: rendered %d pages but document has %d", report.ErrExportFailed, result.Pages, meta.PageCount)
		}
	}

	artifact := &models.ExportArtifact{
		Filename:    result.Filename,
		ContentType: contentTypePDF,
		Content:     content,
		PageCount:   result.Pages,
		GeneratedAt: result.GeneratedAt,
	}

	if s.config.OutputDir != "" {
		path, err := writeAtomic(s.config.OutputDir, result.Filename, content)
		if err != nil {
			s.logger.Error().Err(err).Str("filename", result.Filename).Msg("Failed to save report")
			return nil, fmt.Errorf("%w: %w", report.ErrExportFailed, err)
		}
		artifact.OutputPath = path
	}

	if s.exports != nil {
		record := &models.ExportRecord{
			ID:                common.NewExportID(),
			ReportID:          reportID,
			Filename:          result.Filename,
			SubjectName:       model.Subject.Name,
			PageCount:         result.Pages,
			SizeBytes:         int64(len(content)),
			IncludeTranscript: opts.IncludeTranscript,
			IncludeSignature:  opts.IncludeSignature,
			OutputPath:        artifact.OutputPath,
			CreatedAt:         s.now(),
		}
		// The document already exists at this point; a history failure is not an export failure
		if err := s.exports.SaveExport(ctx, record); err != nil {
			s.logger.Warn().Err(err).Str("filename", result.Filename).Msg("Failed to record export history")
		} else {
			artifact.ExportID = record.ID
		}
	}

	s.logger.Info().
		Str("filename", result.Filename).
		Str("report_id", reportID).
		Int("pages", result.Pages).
		Int("size_bytes", len(content)).
		Bool("transcript", opts.IncludeTranscript).
		Bool("signature", opts.IncludeSignature).
		Msg("Report exported")

	return artifact, nil
}

// PreviewLayout runs the full layout against a Recorder and returns its page plan
func (s *Service) PreviewLayout(ctx context.Context, model *models.ReportContentModel, opts models.ExportOptions) (*interfaces.LayoutPreview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width, height, err := s.config.PageDimensions()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", report.ErrExportFailed, err)
	}
	recorder := report.NewRecorder(width, height)

	result, err := s.compositor.Compose(recorder, s.prepare(model), opts)
	if err != nil {
		return nil, err
	}

	return &interfaces.LayoutPreview{
		Filename: result.Filename,
		Pages:    result.Pages,
		Sections: result.Sections,
		Plan:     recorder.Plan(),
	}, nil
}

// prepare returns the model to render. The caller's model is never modified.
func (s *Service) prepare(model *models.ReportContentModel) *models.ReportContentModel {
	if model == nil || !s.config.StripMarkdown {
		return model
	}
	return plainModel(model)
}

func (s *Service) logRenderError(err error, model *models.ReportContentModel, reportID string) {
	subject := ""
	if model != nil {
		subject = model.Subject.Name
	}
	if errors.Is(err, report.ErrMissingRequiredData) {
		s.logger.Warn().Err(err).Str("report_id", reportID).Str("subject", subject).Msg("Report model rejected")
		return
	}
	s.logger.Error().Err(err).Str("report_id", reportID).Str("subject", subject).Msg("Report export failed")
}

// CreateReport validates and stores a new report model
func (s *Service) CreateReport(ctx context.Context, model *models.ReportContentModel) (*models.ReportRecord, error) {
	if s.reports == nil {
		return nil, fmt.Errorf("report storage is not configured")
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", report.ErrMissingRequiredData, err)
	}

	now := s.now()
	record := &models.ReportRecord{
		ID:        common.NewReportID(),
		Model:     *model,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reports.SaveReport(ctx, record); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store report")
		return nil, err
	}

	s.logger.Info().Str("report_id", record.ID).Str("subject", model.Subject.Name).Msg("Stored report")
	return record, nil
}

// GetReport retrieves a stored report
func (s *Service) GetReport(ctx context.Context, id string) (*models.ReportRecord, error) {
	if s.reports == nil {
		return nil, fmt.Errorf("report storage is not configured")
	}
	record, err := s.reports.GetReport(ctx, id)
	if err != nil {
		s.logger.Debug().Err(err).Str("report_id", id).Msg("Failed to get report")
		return nil, err
	}
	return record, nil
}

// UpdateReport replaces the model of a stored report, keeping its ID and creation time
func (s *Service) UpdateReport(ctx context.Context, id string, model *models.ReportContentModel) (*models.ReportRecord, error) {
	record, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", report.ErrMissingRequiredData, err)
	}

	record.Model = *model
	record.UpdatedAt = s.now()
	if err := s.reports.SaveReport(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("report_id", id).Msg("Failed to update report")
		return nil, err
	}

	s.logger.Info().Str("report_id", id).Msg("Updated report")
	return record, nil
}

// DeleteReport removes a stored report. Its export history is kept.
func (s *Service) DeleteReport(ctx context.Context, id string) error {
	if s.reports == nil {
		return fmt.Errorf("report storage is not configured")
	}
	if err := s.reports.DeleteReport(ctx, id); err != nil {
		s.logger.Debug().Err(err).Str("report_id", id).Msg("Failed to delete report")
		return err
	}

	s.logger.Info().Str("report_id", id).Msg("Deleted report")
	return nil
}

// ListReports returns stored reports, newest first
func (s *Service) ListReports(ctx context.Context, opts *interfaces.ListOptions) ([]*models.ReportRecord, error) {
	if s.reports == nil {
		return nil, fmt.Errorf("report storage is not configured")
	}
	records, err := s.reports.ListReports(ctx, opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list reports")
		return nil, err
	}
	return records, nil
}

// ListExports returns the export history, newest first
func (s *Service) ListExports(ctx context.Context, opts *interfaces.ListOptions) ([]*models.ExportRecord, error) {
	if s.exports == nil {
		return nil, fmt.Errorf("export storage is not configured")
	}
	records, err := s.exports.ListExports(ctx, opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list exports")
		return nil, err
	}
	return records, nil
}

// GetExport retrieves one export history entry
func (s *Service) GetExport(ctx context.Context, id string) (*models.ExportRecord, error) {
	if s.exports == nil {
		return nil, fmt.Errorf("export storage is not configured")
	}
	return s.exports.GetExport(ctx, id)
}

// writeAtomic writes content to dir/filename through a temp file and rename,
// so a partially written document is never visible under the final name
func writeAtomic(dir, filename string, content []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".refcheck-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("failed to sync report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to close report: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to move report into place: %w", err)
	}
	return path, nil
}
