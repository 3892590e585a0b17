package workers

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/reachly-dev/reachly/internal/models"
	"github.com/reachly-dev/reachly/internal/tasks"
)

// StartMetricsScheduler runs a periodic check (every minute) for a due
// metrics refresh, driven by the cron expression on the config row
func StartMetricsScheduler(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	// Run immediately on startup, then every minute
	checkAndEnqueueRefresh(client, db, logger)

	for range ticker.C {
		checkAndEnqueueRefresh(client, db, logger)
	}
}

func checkAndEnqueueRefresh(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	// Load the singleton config
	var config models.Config
	err := db.First(&config).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.Debug().Msg("No config found - skipping refresh check")
			return
		}
		logger.Error().Err(err).Msg("Failed to query config for refresh")
		return
	}

	if config.MetricsRefreshSchedule == "" {
		logger.Debug().Msg("No metrics refresh schedule configured")
		return
	}

	schedule, err := cron.ParseStandard(config.MetricsRefreshSchedule)
	if err != nil {
		logger.Error().
			Err(err).
			Str("schedule", config.MetricsRefreshSchedule).
			Msg("Invalid refresh schedule")
		return
	}

	now := time.Now()

	// First tick after the schedule was set: seed next_refresh_at
	// instead of refreshing immediately
	if config.NextRefreshAt == nil {
		next := schedule.Next(now)
		config.NextRefreshAt = &next
		if err := db.Save(&config).Error; err != nil {
			logger.Error().Err(err).Msg("Failed to seed next refresh time")
		}
		return
	}

	if config.NextRefreshAt.After(now) {
		logger.Debug().
			Time("next_refresh_at", *config.NextRefreshAt).
			Msg("Metrics refresh not due yet")
		return
	}

	task, err := tasks.NewRefreshMetricsTask()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create refresh task")
		return
	}

	// Unique prevents piling up refreshes when a run outlasts a tick
	if _, err := client.Enqueue(task, asynq.Unique(10*time.Minute)); err != nil {
		logger.Error().Err(err).Msg("Failed to enqueue metrics refresh")
		return
	}

	next := schedule.Next(now)
	config.NextRefreshAt = &next
	if err := db.Save(&config).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to advance next refresh time")
	}

	logger.Info().
		Time("next_refresh_at", next).
		Msg("Metrics refresh enqueued")
}
