// -----------------------------------------------------------------------
// PDF Inspector Interface - verify rendered PDF documents
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
)

// PDFMetadata describes a rendered PDF document
type PDFMetadata struct {
	PageCount   int   `json:"page_count"`
	FileSize    int64 `json:"file_size"`
	IsEncrypted bool  `json:"is_encrypted"`
	Valid       bool  `json:"valid"`
}

// PDFInspector reads back PDF documents produced by an export.
// This lets a different parser back the verification without touching the exporter.
type PDFInspector interface {
	// Inspect parses and validates the document and returns its metadata
	Inspect(ctx context.Context, content []byte) (*PDFMetadata, error)

	// InspectFile is Inspect for a document already on disk
	InspectFile(ctx context.Context, path string) (*PDFMetadata, error)
}
