package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/common"
	"github.com/ternarybob/refcheck/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db     *BadgerDB
	report interfaces.ReportStorage
	export interfaces.ExportStorage
	logger arbor.ILogger
}

// Open creates the storage manager selected by config. Badger is the only backend.
func Open(logger arbor.ILogger, config *common.StorageConfig) (interfaces.StorageManager, error) {
	if config.Type != "badger" && config.Type != "" {
		return nil, fmt.Errorf("unsupported storage type: %s (only 'badger' is supported)", config.Type)
	}
	return NewManager(logger, &config.Badger)
}

// NewManager opens the report database and its report and export stores
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:     db,
		report: NewReportStorage(db, logger),
		export: NewExportStorage(db, logger),
		logger: logger,
	}

	logger.Info().Str("path", config.Path).Msg("Report storage initialized")

	return manager, nil
}

// ReportStorage returns the stored report models
func (m *Manager) ReportStorage() interfaces.ReportStorage {
	return m.report
}

// ExportStorage returns the export history
func (m *Manager) ExportStorage() interfaces.ExportStorage {
	return m.export
}

// Stats counts the stored report models and export records
func (m *Manager) Stats(ctx context.Context) (*interfaces.StorageStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reports, exports, err := m.db.counts()
	if err != nil {
		return nil, err
	}
	return &interfaces.StorageStats{
		Backend: "badger",
		Path:    m.db.path,
		Reports: reports,
		Exports: exports,
	}, nil
}

// DB returns the underlying badgerhold store
func (m *Manager) DB() interface{} {
	if m.db != nil {
		return m.db.Store()
	}
	return nil
}

// Close closes the database
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
