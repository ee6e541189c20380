package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/models"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleExportReport implements the export_report tool
func handleExportReport(service interfaces.ReportService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return textResult("Error: path parameter is required"), nil
		}

		model, err := models.LoadReportFile(path)
		if err != nil {
			return textResult(fmt.Sprintf("Error: %v", err)), nil
		}

		artifact, err := service.Export(ctx, model, models.ExportOptions{
			IncludeTranscript: request.GetBool("include_transcript", false),
			IncludeSignature:  request.GetBool("include_signature", false),
		})
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Export failed")
			return textResult(fmt.Sprintf("Export error: %v", err)), nil
		}

		return textResult(formatArtifact(artifact)), nil
	}
}

// handleInspectReport implements the inspect_report tool
func handleInspectReport(inspector interfaces.PDFInspector, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return textResult("Error: path parameter is required"), nil
		}

		meta, err := inspector.InspectFile(ctx, path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Inspect failed")
			return textResult(fmt.Sprintf("Invalid PDF: %v", err)), nil
		}

		return textResult(fmt.Sprintf("# %s\n\n- Pages: %d\n- Size: %d bytes\n- Encrypted: %t\n",
			path, meta.PageCount, meta.FileSize, meta.IsEncrypted)), nil
	}
}

// handleListExports implements the list_exports tool
func handleListExports(service interfaces.ReportService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 20)
		if limit > 100 {
			limit = 100
		}

		exports, err := service.ListExports(ctx, &interfaces.ListOptions{Limit: limit})
		if err != nil {
			logger.Error().Err(err).Msg("List exports failed")
			return textResult(fmt.Sprintf("Error: %v", err)), nil
		}

		return textResult(formatExports(exports)), nil
	}
}

func formatArtifact(a *models.ExportArtifact) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Exported %s\n\n", a.Filename))
	sb.WriteString(fmt.Sprintf("- Pages: %d\n", a.PageCount))
	sb.WriteString(fmt.Sprintf("- Size: %d bytes\n", len(a.Content)))
	if a.OutputPath != "" {
		sb.WriteString(fmt.Sprintf("- Saved to: %s\n", a.OutputPath))
	}
	if a.ExportID != "" {
		sb.WriteString(fmt.Sprintf("- Export ID: %s\n", a.ExportID))
	}
	return sb.String()
}

func formatExports(exports []*models.ExportRecord) string {
	if len(exports) == 0 {
		return "No exports found."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Recent exports (%d)\n\n", len(exports)))
	for _, e := range exports {
		sb.WriteString(fmt.Sprintf("- **%s** (%s): %d pages, %s\n",
			e.Filename, e.SubjectName, e.PageCount, e.CreatedAt.Format(time.RFC3339)))
	}
	return sb.String()
}
