package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createExportReportTool returns the export_report tool definition
func createExportReportTool() mcp.Tool {
	return mcp.NewTool("export_report",
		mcp.WithDescription("Render a reference check report model file (JSON or YAML) to a PDF document"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the report model file (.json, .yaml or .yml)"),
		),
		mcp.WithBoolean("include_transcript",
			mcp.Description("Append the full interview transcript (default: false)"),
		),
		mcp.WithBoolean("include_signature",
			mcp.Description("Append the reviewer sign-off block (default: false)"),
		),
	)
}

// createInspectReportTool returns the inspect_report tool definition
func createInspectReportTool() mcp.Tool {
	return mcp.NewTool("inspect_report",
		mcp.WithDescription("Validate an existing PDF report and return its page count"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
}

// createListExportsTool returns the list_exports tool definition
func createListExportsTool() mcp.Tool {
	return mcp.NewTool("list_exports",
		mcp.WithDescription("List recent report exports, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 20, max: 100)"),
		),
	)
}
