package retention

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Scheduler runs the retention service on a cron schedule
type Scheduler struct {
	service *Service
	cron    *cron.Cron
	logger  arbor.ILogger
}

// NewScheduler creates a new retention scheduler
func NewScheduler(service *Service, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		service: service,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
	}
}

// Start begins the scheduled pruning
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		// Default: daily at 03:00
		schedule = "0 0 3 * * *"
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.runPrune()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Msg("Export retention scheduler started")

	return nil
}

// Stop stops the scheduler and waits for a running prune to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Export retention scheduler stopped")
}

func (s *Scheduler) runPrune() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stats, err := s.service.Prune(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("Scheduled retention run failed")
		return
	}

	s.logger.Info().
		Int("removed", stats.Removed).
		Int("files_removed", stats.FilesRemoved).
		Int("errors", stats.Errors).
		Str("cutoff", stats.Cutoff.Format(time.RFC3339)).
		Dur("duration", stats.Duration).
		Msg("Scheduled retention run completed")
}
