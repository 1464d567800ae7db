package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/username/lucroclaro/backend/src/logger"
	"github.com/username/lucroclaro/backend/src/services"
)

// Scheduler runs the order sync on a cron schedule. Each run re-reads the
// persisted settings so the sync can be paused without restarting the server.
type Scheduler struct {
	cron            *cron.Cron
	syncService     services.SyncService
	settingsService services.SettingsService
	runTimeout      time.Duration
}

func New(syncService services.SyncService, settingsService services.SettingsService) *Scheduler {
	return &Scheduler{
		cron:            cron.New(),
		syncService:     syncService,
		settingsService: settingsService,
		runTimeout:      30 * time.Minute,
	}
}

// Start registers the sync job under the given cron spec and starts the
// scheduler. Specs like "@every 6h" and standard 5-field expressions are
// both accepted.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.runSync)
	if err != nil {
		return err
	}
	s.cron.Start()
	logger.L.Info("Sync scheduler started", "schedule", spec)
	return nil
}

// Stop halts the scheduler and waits for a running job to complete.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.L.Info("Sync scheduler stopped")
}

func (s *Scheduler) runSync() {
	settings, err := s.settingsService.Get()
	if err != nil {
		logger.L.Error("Scheduled sync: failed to load settings", "error", err)
		return
	}
	if !settings.SyncEnabled {
		logger.L.Debug("Scheduled sync skipped, sync disabled in settings")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	logger.L.Info("Scheduled sync starting")
	result, err := s.syncService.SyncOrders(ctx)
	if err != nil {
		logger.L.Error("Scheduled sync failed", "error", err)
		return
	}
	logger.L.Info("Scheduled sync finished",
		"fetched", result.Fetched,
		"synced", result.Synced,
		"failed", result.Failed,
		"duration", result.Duration)
}
