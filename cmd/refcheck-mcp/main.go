package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/refcheck/internal/common"
	"github.com/ternarybob/refcheck/internal/services/pdf"
	"github.com/ternarybob/refcheck/internal/services/reports"
	"github.com/ternarybob/refcheck/internal/storage/badger"
)

func main() {
	// Load configuration
	configPath := os.Getenv("REFCHECK_CONFIG")
	if configPath == "" {
		if _, err := os.Stat("refcheck.toml"); err == nil {
			configPath = "refcheck.toml"
		}
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize minimal logger for MCP server (console only, no file output)
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn") // Minimal logging to avoid cluttering MCP stdio

	// Initialize storage
	storageManager, err := badger.Open(logger, &config.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	compositor, err := reports.NewCompositor(config.Render, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize compositor")
	}
	inspector := pdf.NewInspector(logger)
	reportService := reports.NewService(compositor, storageManager, inspector, config.Render, logger)

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"refcheck",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register report tools
	mcpServer.AddTool(createExportReportTool(), handleExportReport(reportService, logger))
	mcpServer.AddTool(createInspectReportTool(), handleInspectReport(inspector, logger))
	mcpServer.AddTool(createListExportsTool(), handleListExports(reportService, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
