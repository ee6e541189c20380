package main

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/common"
	"github.com/ternarybob/refcheck/internal/models"
	"github.com/ternarybob/refcheck/internal/services/pdf"
	"github.com/ternarybob/refcheck/internal/services/reports"
)

// runRender renders one model file into the configured output directory.
// No storage is opened, so nothing is added to the export history.
func runRender(config *common.Config, logger arbor.ILogger, path string, transcript, signature bool) error {
	model, err := models.LoadReportFile(path)
	if err != nil {
		return err
	}

	if config.Render.OutputDir == "" {
		config.Render.OutputDir = "."
	}

	compositor, err := reports.NewCompositor(config.Render, logger)
	if err != nil {
		return err
	}
	service := reports.NewService(compositor, nil, pdf.NewInspector(logger), config.Render, logger)

	artifact, err := service.Export(context.Background(), model, models.ExportOptions{
		IncludeTranscript: transcript,
		IncludeSignature:  signature,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d pages)\n", artifact.OutputPath, artifact.PageCount)
	return nil
}
