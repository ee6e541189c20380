// -----------------------------------------------------------------------
// PDF Inspector Service - read back and validate rendered reports
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/interfaces"
)

// Inspector implements interfaces.PDFInspector using pdfcpu
type Inspector struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.PDFInspector = (*Inspector)(nil)

// NewInspector creates a new PDF inspector
func NewInspector(logger arbor.ILogger) *Inspector {
	return &Inspector{logger: logger}
}

// Inspect validates content and reads its page count
func (i *Inspector) Inspect(ctx context.Context, content []byte) (*interfaces.PDFMetadata, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty PDF content")
	}

	// pdfcpu works on files; stage the document in a temp file
	tmp, err := os.CreateTemp("", "refcheck-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp PDF file: %w", err)
	}
	tempFile := tmp.Name()
	defer os.Remove(tempFile)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write temp PDF file: %w", err)
	}

	return i.InspectFile(ctx, tempFile)
}

// InspectFile validates the PDF at path and reads its page count
func (i *Inspector) InspectFile(ctx context.Context, path string) (*interfaces.PDFMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat PDF file: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	if err := api.ValidateFile(path, conf); err != nil {
		return nil, fmt.Errorf("PDF validation failed: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	metadata := &interfaces.PDFMetadata{
		PageCount:   pdfCtx.PageCount,
		FileSize:    stat.Size(),
		IsEncrypted: pdfCtx.Encrypt != nil,
		Valid:       true,
	}

	i.logger.Debug().
		Int("page_count", metadata.PageCount).
		Int64("file_size", metadata.FileSize).
		Bool("encrypted", metadata.IsEncrypted).
		Msg("Inspected PDF")

	return metadata, nil
}
