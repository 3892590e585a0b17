package workers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/reachly-dev/reachly/internal/models"
	"github.com/reachly-dev/reachly/internal/tasks"
)

// Free mailbox providers score lower than company domains; a lead who
// writes from a work address is more likely to represent a real buyer.
var freeMailDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
	"yahoo.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"aol.com":        true,
	"icloud.com":     true,
	"proton.me":      true,
	"protonmail.com": true,
	"mail.com":       true,
	"gmx.com":        true,
}

// HandleScoreLead scores a captured lead and moves it to the scored state
func HandleScoreLead(ctx context.Context, t *asynq.Task, db *gorm.DB, logger zerolog.Logger) error {
	payload, err := tasks.ParseLeadPayload(t)
	if err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	var lead models.Lead
	if err := db.WithContext(ctx).First(&lead, "id = ?", payload.LeadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Deleted before the task ran; nothing to score
			logger.Warn().Str("lead_id", payload.LeadID).Msg("Lead no longer exists, skipping scoring")
			return nil
		}
		return fmt.Errorf("failed to load lead: %w", err)
	}

	if lead.Status != models.LeadNew {
		logger.Debug().
			Str("lead_id", lead.ID).
			Str("status", lead.Status).
			Msg("Lead already scored, skipping")
		return nil
	}

	lead.Score = scoreLead(&lead)
	lead.Status = models.LeadScored
	now := time.Now()
	lead.ScoredAt = &now

	if err := db.WithContext(ctx).Save(&lead).Error; err != nil {
		return fmt.Errorf("failed to save scored lead: %w", err)
	}

	logger.Info().
		Str("lead_id", lead.ID).
		Int("score", lead.Score).
		Msg("Lead scored")

	return nil
}

// scoreLead computes a 0-100 contact quality score. The heuristic
// rewards completeness and a work email address; it is deterministic so
// re-running a task produces the same score.
func scoreLead(lead *models.Lead) int {
	score := 20 // email is required, so every lead starts here

	if lead.Name != "" {
		score += 15
	}
	if lead.Phone != "" {
		score += 20
	}
	if lead.Company != "" {
		score += 15
	}

	switch n := len(strings.TrimSpace(lead.Message)); {
	case n >= 120:
		score += 15
	case n >= 20:
		score += 10
	case n > 0:
		score += 5
	}

	if at := strings.LastIndex(lead.Email, "@"); at >= 0 {
		domain := strings.ToLower(lead.Email[at+1:])
		if domain != "" && !freeMailDomains[domain] {
			score += 15
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}
