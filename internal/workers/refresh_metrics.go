package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/reachly-dev/reachly/internal/anonymize"
	"github.com/reachly-dev/reachly/internal/models"
)

// HandleRefreshMetrics recomputes the per-campaign rollups shown on the
// dashboard. Lead counts come from the leads table; spend accrues from
// the daily budget and time since launch until the platform reporting
// APIs are wired in.
func HandleRefreshMetrics(ctx context.Context, t *asynq.Task, db *gorm.DB, logger zerolog.Logger) error {
	var campaigns []models.Campaign
	err := db.WithContext(ctx).
		Where("status IN ?", []string{models.CampaignActive, models.CampaignPaused}).
		Find(&campaigns).Error
	if err != nil {
		return fmt.Errorf("failed to list campaigns: %w", err)
	}

	now := time.Now()
	refreshed := 0

	for i := range campaigns {
		campaign := &campaigns[i]

		var leadCount int64
		if err := db.WithContext(ctx).Model(&models.Lead{}).
			Where("campaign_id = ?", campaign.ID).
			Count(&leadCount).Error; err != nil {
			logger.Error().Err(err).Str("campaign_id", campaign.ID).Msg("Failed to count leads")
			continue
		}

		campaign.LeadCount = int(leadCount)
		campaign.SpendToDate = estimateSpend(campaign, now)
		campaign.MetricsUpdatedAt = &now

		if err := db.WithContext(ctx).Save(campaign).Error; err != nil {
			logger.Error().Err(err).Str("campaign_id", campaign.ID).Msg("Failed to save rollups")
			continue
		}
		refreshed++
	}

	// Record the refresh on the singleton config so the scheduler and
	// the admin dashboard both see when it last ran
	var cfg models.Config
	if err := db.WithContext(ctx).First(&cfg).Error; err == nil {
		cfg.LastRefreshedAt = &now
		if err := db.WithContext(ctx).Save(&cfg).Error; err != nil {
			logger.Error().Err(err).Msg("Failed to record refresh time")
		}
	}

	// Retention pass rides along with the scheduled refresh
	if _, err := anonymize.DiscardedLeads(ctx, db, logger); err != nil {
		logger.Error().Err(err).Msg("Failed to redact discarded leads")
	}

	logger.Info().
		Int("campaigns", refreshed).
		Msg("Campaign metrics refreshed")

	return nil
}

// estimateSpend accrues budget linearly from launch time. Paused
// campaigns keep their accrual frozen at the last refresh.
func estimateSpend(campaign *models.Campaign, now time.Time) float64 {
	if campaign.LaunchedAt == nil || campaign.DailyBudget <= 0 {
		return campaign.SpendToDate
	}
	if campaign.Status == models.CampaignPaused {
		return campaign.SpendToDate
	}

	days := now.Sub(*campaign.LaunchedAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	return campaign.DailyBudget * days
}
