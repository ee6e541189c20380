// -----------------------------------------------------------------------
// Report Service Interface - stored reports, exports and layout previews
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/refcheck/internal/models"
)

// LayoutPreview is the page plan of a render that was never serialized
type LayoutPreview struct {
	Filename string   `json:"filename"`
	Pages    int      `json:"pages"`
	Sections []string `json:"sections"`
	Plan     any      `json:"plan"`
}

// ReportService manages report models and turns them into documents
type ReportService interface {
	// Export renders an ad-hoc model
	Export(ctx context.Context, model *models.ReportContentModel, opts models.ExportOptions) (*models.ExportArtifact, error)

	// ExportStored renders the stored report with the given ID
	ExportStored(ctx context.Context, id string, opts models.ExportOptions) (*models.ExportArtifact, error)

	// PreviewLayout runs the full layout against an in-memory surface and returns the page plan
	PreviewLayout(ctx context.Context, model *models.ReportContentModel, opts models.ExportOptions) (*LayoutPreview, error)

	CreateReport(ctx context.Context, model *models.ReportContentModel) (*models.ReportRecord, error)
	GetReport(ctx context.Context, id string) (*models.ReportRecord, error)
	UpdateReport(ctx context.Context, id string, model *models.ReportContentModel) (*models.ReportRecord, error)
	DeleteReport(ctx context.Context, id string) error
	ListReports(ctx context.Context, opts *ListOptions) ([]*models.ReportRecord, error)

	ListExports(ctx context.Context, opts *ListOptions) ([]*models.ExportRecord, error)
	GetExport(ctx context.Context, id string) (*models.ExportRecord, error)
}
