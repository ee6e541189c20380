package badger

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/common"
	"github.com/ternarybob/refcheck/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// BadgerDB is the open report database: stored report models and export history
type BadgerDB struct {
	store  *badgerhold.Store
	path   string
	logger arbor.ILogger
}

// NewBadgerDB opens the report database at config.Path, creating the directory
// when needed. With ResetOnStartup the stored reports and export history are
// wiped first; exported files on disk are left alone.
func NewBadgerDB(logger arbor.ILogger, config *common.BadgerConfig) (*BadgerDB, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("badger path is required")
	}

	if config.ResetOnStartup {
		if err := os.RemoveAll(config.Path); err != nil {
			logger.Warn().Err(err).Str("path", config.Path).Msg("Failed to reset report database")
		} else {
			logger.Info().Str("path", config.Path).Msg("Report database reset (reset_on_startup=true)")
		}
	}

	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = config.Path
	options.ValueDir = config.Path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open report database at %s: %w", config.Path, err)
	}

	db := &BadgerDB{store: store, path: config.Path, logger: logger}

	reports, exports, err := db.counts()
	if err != nil {
		store.Close()
		return nil, err
	}
	logger.Debug().
		Str("path", config.Path).
		Int("reports", reports).
		Int("exports", exports).
		Msg("Report database opened")

	return db, nil
}

// Store returns the underlying badgerhold store
func (b *BadgerDB) Store() *badgerhold.Store {
	return b.store
}

// counts returns how many report models and export records are stored
func (b *BadgerDB) counts() (reports, exports int, err error) {
	r, err := b.store.Count(&models.ReportRecord{}, badgerhold.Where("ID").Ne(""))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count reports: %w", err)
	}
	e, err := b.store.Count(&models.ExportRecord{}, badgerhold.Where("ID").Ne(""))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count exports: %w", err)
	}
	return int(r), int(e), nil
}

// Close closes the database
func (b *BadgerDB) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}
