// -----------------------------------------------------------------------
// Storage Interfaces - persistence for report models and export history
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/refcheck/internal/models"
)

// ErrNotFound is returned by storage lookups for unknown IDs
var ErrNotFound = errors.New("not found")

// ListOptions pages through stored records, newest first
type ListOptions struct {
	Limit  int
	Offset int
}

// ReportStorage - interface for stored report models
type ReportStorage interface {
	SaveReport(ctx context.Context, report *models.ReportRecord) error
	GetReport(ctx context.Context, id string) (*models.ReportRecord, error)
	ListReports(ctx context.Context, opts *ListOptions) ([]*models.ReportRecord, error)
	DeleteReport(ctx context.Context, id string) error
	CountReports(ctx context.Context) (int, error)
}

// ExportStorage - interface for export history
type ExportStorage interface {
	SaveExport(ctx context.Context, export *models.ExportRecord) error
	GetExport(ctx context.Context, id string) (*models.ExportRecord, error)
	ListExports(ctx context.Context, opts *ListOptions) ([]*models.ExportRecord, error)
	ListExportsByReport(ctx context.Context, reportID string) ([]*models.ExportRecord, error)
	DeleteExport(ctx context.Context, id string) error
	CountExports(ctx context.Context) (int, error)

	// CountExportsByPath counts the records that point at one saved file.
	// Same-day exports for the same subject share a filename.
	CountExportsByPath(ctx context.Context, path string) (int, error)

	// ListExportsBefore returns every export created before cutoff, oldest first
	ListExportsBefore(ctx context.Context, cutoff time.Time) ([]*models.ExportRecord, error)
}

// StorageStats is a snapshot of what the backend holds
type StorageStats struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
	Reports int    `json:"reports"`
	Exports int    `json:"exports"`
}

// StorageManager - interface for the storage backend
type StorageManager interface {
	ReportStorage() ReportStorage
	ExportStorage() ExportStorage
	Stats(ctx context.Context) (*StorageStats, error)
	DB() interface{}
	Close() error
}
