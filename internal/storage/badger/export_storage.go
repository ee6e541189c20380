package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ExportStorage implements the ExportStorage interface for Badger
type ExportStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewExportStorage creates a new ExportStorage instance
func NewExportStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ExportStorage {
	return &ExportStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ExportStorage) SaveExport(ctx context.Context, export *models.ExportRecord) error {
	if export.ID == "" {
		return fmt.Errorf("export ID is required")
	}
	if err := s.db.Store().Upsert(export.ID, export); err != nil {
		return fmt.Errorf("failed to save export: %w", err)
	}
	return nil
}

func (s *ExportStorage) GetExport(ctx context.Context, id string) (*models.ExportRecord, error) {
	var export models.ExportRecord
	if err := s.db.Store().Get(id, &export); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("export %s: %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get export: %w", err)
	}
	return &export, nil
}

func (s *ExportStorage) ListExports(ctx context.Context, opts *interfaces.ListOptions) ([]*models.ExportRecord, error) {
	query := applyListOptions(badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse(), opts)
	return s.find(query)
}

func (s *ExportStorage) ListExportsByReport(ctx context.Context, reportID string) ([]*models.ExportRecord, error) {
	return s.find(badgerhold.Where("ReportID").Eq(reportID).SortBy("CreatedAt").Reverse())
}

func (s *ExportStorage) ListExportsBefore(ctx context.Context, cutoff time.Time) ([]*models.ExportRecord, error) {
	all, err := s.find(badgerhold.Where("ID").Ne("").SortBy("CreatedAt"))
	if err != nil {
		return nil, err
	}

	var result []*models.ExportRecord
	for _, export := range all {
		if !export.CreatedAt.Before(cutoff) {
			break
		}
		result = append(result, export)
	}
	return result, nil
}

func (s *ExportStorage) DeleteExport(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.ExportRecord{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete export: %w", err)
	}
	return nil
}

func (s *ExportStorage) CountExports(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.ExportRecord{}, badgerhold.Where("ID").Ne(""))
	if err != nil {
		return 0, fmt.Errorf("failed to count exports: %w", err)
	}
	return int(count), nil
}

func (s *ExportStorage) CountExportsByPath(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	count, err := s.db.Store().Count(&models.ExportRecord{}, badgerhold.Where("OutputPath").Eq(path))
	if err != nil {
		return 0, fmt.Errorf("failed to count exports for %s: %w", path, err)
	}
	return int(count), nil
}

func (s *ExportStorage) find(query *badgerhold.Query) ([]*models.ExportRecord, error) {
	var exports []models.ExportRecord
	if err := s.db.Store().Find(&exports, query); err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}

	result := make([]*models.ExportRecord, len(exports))
	for i := range exports {
		result[i] = &exports[i]
	}
	return result, nil
}
