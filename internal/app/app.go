package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/common"
	"github.com/ternarybob/refcheck/internal/handlers"
	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/services/pdf"
	"github.com/ternarybob/refcheck/internal/services/reports"
	"github.com/ternarybob/refcheck/internal/services/retention"
	"github.com/ternarybob/refcheck/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Report services
	ReportService      *reports.Service
	PDFInspector       interfaces.PDFInspector
	RetentionService   *retention.Service
	RetentionScheduler *retention.Scheduler

	// HTTP handlers
	APIHandler           *handlers.APIHandler
	ReportHandler        *handlers.ReportHandler
	ExportHistoryHandler *handlers.ExportHistoryHandler
	ExportLimiter        *handlers.RateLimiter
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize database
	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize services
	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize handlers
	app.initHandlers()

	logger.Info().Msg("Application initialization complete")
	return app, nil
}

// initDatabase initializes the Badger storage layer
func (a *App) initDatabase() error {
	storageManager, err := badger.Open(a.Logger, &a.Config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes the compositor, report and retention services
func (a *App) initServices() error {
	compositor, err := reports.NewCompositor(a.Config.Render, a.Logger)
	if err != nil {
		return err
	}

	a.PDFInspector = pdf.NewInspector(a.Logger)
	a.ReportService = reports.NewService(compositor, a.StorageManager, a.PDFInspector, a.Config.Render, a.Logger)

	if a.Config.Retention.Enabled {
		maxAge, err := a.Config.Retention.MaxAgeDuration()
		if err != nil {
			return err
		}
		a.RetentionService = retention.NewService(a.StorageManager.ExportStorage(), maxAge, a.Logger)
		a.RetentionScheduler = retention.NewScheduler(a.RetentionService, a.Logger)
		if err := a.RetentionScheduler.Start(a.Config.Retention.Schedule); err != nil {
			return fmt.Errorf("failed to start retention scheduler: %w", err)
		}
	}

	a.Logger.Debug().
		Str("page_size", a.Config.Render.PageSize).
		Bool("strip_markdown", a.Config.Render.StripMarkdown).
		Bool("retention", a.Config.Retention.Enabled).
		Msg("Services initialized")

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.StorageManager, a.Logger)
	a.ReportHandler = handlers.NewReportHandler(a.ReportService, a.Logger)
	a.ExportHistoryHandler = handlers.NewExportHistoryHandler(a.ReportService, a, a.Logger)
	a.ExportLimiter = handlers.NewRateLimiter(a.Config.Limits.ExportsPerMinute, a.Config.Limits.Burst)
}

// Prune runs retention once, outside the schedule. Backs POST /api/exports/prune.
func (a *App) Prune(ctx context.Context) (*retention.PruneStats, error) {
	if a.RetentionService == nil {
		return nil, retention.ErrDisabled
	}
	return a.RetentionService.Prune(ctx)
}

// Close closes all application resources
func (a *App) Close() error {
	// Stop retention scheduler before the storage it writes to
	if a.RetentionScheduler != nil {
		a.RetentionScheduler.Stop()
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
