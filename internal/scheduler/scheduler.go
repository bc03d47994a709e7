package scheduler

import (
	"fmt"
	"time"

	cron "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// LibraryUpdater refreshes the primary rule dataset. Implemented by
// chinacal.Updater.
type LibraryUpdater interface {
	Run() error
}

// Scheduler drives the two daily background jobs: the rule dataset update
// and the cross-check cache refresh. Job failures are logged and never
// affect the next scheduled run.
type Scheduler struct {
	cron        *cron.Cron
	updater     LibraryUpdater
	refresher   *CacheRefresher
	updateSpec  string
	refreshSpec string
	logger      *zap.Logger
}

// New creates a Scheduler running in the given timezone with cron specs for
// the update and refresh jobs.
func New(loc *time.Location, updateSpec, refreshSpec string, updater LibraryUpdater, refresher *CacheRefresher, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(loc)),
		updater:     updater,
		refresher:   refresher,
		updateSpec:  updateSpec,
		refreshSpec: refreshSpec,
		logger:      logger,
	}
}

// Start runs the cache refresh once immediately, registers both daily jobs
// and starts the cron loop.
func (s *Scheduler) Start() error {
	// Warm the cross-check cache before serving; the rule dataset keeps
	// whatever is on disk until the first scheduled update.
	if err := s.refresher.Run(); err != nil {
		s.logger.Warn("Startup cache refresh failed", zap.Error(err))
	}

	if _, err := s.cron.AddFunc(s.updateSpec, func() {
		if err := s.updater.Run(); err != nil {
			s.logger.Error("Scheduled rule dataset update failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule rule dataset update: %w", err)
	}

	if _, err := s.cron.AddFunc(s.refreshSpec, func() {
		if err := s.refresher.Run(); err != nil {
			s.logger.Error("Scheduled cache refresh failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule cache refresh: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Background refresh scheduled",
		zap.String("library_update", s.updateSpec),
		zap.String("cache_refresh", s.refreshSpec))

	return nil
}

// Stop stops the cron loop; running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("Background refresh stopped")
}
