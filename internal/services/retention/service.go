// -----------------------------------------------------------------------
// Retention Service - prunes old export history and the files it points to
// -----------------------------------------------------------------------

package retention

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/models"
)

// ErrDisabled is returned when a prune is requested but retention is off
var ErrDisabled = errors.New("retention is disabled")

// PruneStats summarizes one retention run
type PruneStats struct {
	Removed      int           `json:"removed"`
	FilesRemoved int           `json:"files_removed"`
	FilesShared  int           `json:"files_shared"` // kept because a newer export wrote the same file
	Errors       int           `json:"errors"`
	Cutoff       time.Time     `json:"cutoff"`
	Duration     time.Duration `json:"duration"`
}

// Service deletes export records older than maxAge
type Service struct {
	exports interfaces.ExportStorage
	maxAge  time.Duration
	logger  arbor.ILogger
	now     func() time.Time
}

// NewService creates a new retention service
func NewService(exports interfaces.ExportStorage, maxAge time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		exports: exports,
		maxAge:  maxAge,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the time source used to compute the cutoff
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Prune removes every export created before now-maxAge, oldest first. A file
// still referenced by another record is left on disk. A record whose file
// cannot be removed is kept so the next run retries it.
func (s *Service) Prune(ctx context.Context) (*PruneStats, error) {
	start := time.Now()
	stats := &PruneStats{Cutoff: s.now().Add(-s.maxAge)}

	expired, err := s.exports.ListExportsBefore(ctx, stats.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired exports: %w", err)
	}

	for _, export := range expired {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if !s.removeFile(ctx, export, stats) {
			continue
		}

		if err := s.exports.DeleteExport(ctx, export.ID); err != nil {
			stats.Errors++
			s.logger.Warn().Err(err).Str("export_id", export.ID).Msg("Failed to delete export record")
			continue
		}
		stats.Removed++
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// removeFile deletes the file an expired export saved, unless another record
// still points at it. Returns false when the record must be kept.
func (s *Service) removeFile(ctx context.Context, export *models.ExportRecord, stats *PruneStats) bool {
	if export.OutputPath == "" {
		return true
	}

	refs, err := s.exports.CountExportsByPath(ctx, export.OutputPath)
	if err != nil {
		stats.Errors++
		s.logger.Warn().Err(err).Str("export_id", export.ID).Msg("Failed to check exported file references")
		return false
	}
	if refs > 1 {
		stats.FilesShared++
		return true
	}

	err = os.Remove(export.OutputPath)
	switch {
	case err == nil:
		stats.FilesRemoved++
	case errors.Is(err, os.ErrNotExist):
		// already gone
	default:
		stats.Errors++
		s.logger.Warn().Err(err).Str("export_id", export.ID).Str("path", export.OutputPath).Msg("Failed to remove exported file")
		return false
	}
	return true
}
