// Package anonymize redacts personal data from leads that left the
// pipeline. Discarded leads keep their score and campaign linkage for
// reporting, but the contact details are replaced with deterministic
// placeholders once the retention window passes.
package anonymize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/reachly-dev/reachly/internal/models"
)

// RetentionWindow is how long a discarded lead keeps its contact
// details before redaction
const RetentionWindow = 30 * 24 * time.Hour

// PlaceholderEmail builds the deterministic redacted address for a
// lead. Deriving it from the lead ID keeps redaction idempotent and
// preserves row distinctness for dedup queries.
func PlaceholderEmail(leadID string) string {
	return fmt.Sprintf("redacted+%s@redacted.invalid", strings.ToLower(leadID))
}

// DiscardedLeads redacts contact details from discarded leads older
// than the retention window. Returns the number of leads redacted.
func DiscardedLeads(ctx context.Context, db *gorm.DB, logger zerolog.Logger) (int, error) {
	cutoff := time.Now().Add(-RetentionWindow)

	var leads []models.Lead
	err := db.WithContext(ctx).
		Where("status = ? AND updated_at < ? AND email NOT LIKE ?",
			models.LeadDiscarded, cutoff, "redacted+%").
		Find(&leads).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list discarded leads: %w", err)
	}

	if len(leads) == 0 {
		return 0, nil
	}

	redacted := 0
	for i := range leads {
		lead := &leads[i]
		lead.Email = PlaceholderEmail(lead.ID)
		lead.Name = ""
		lead.Phone = ""
		lead.Company = ""
		lead.Message = ""

		if err := db.WithContext(ctx).Save(lead).Error; err != nil {
			logger.Error().Err(err).Str("lead_id", lead.ID).Msg("Failed to redact lead")
			continue
		}
		redacted++
	}

	logger.Info().
		Int("leads", redacted).
		Msg("Discarded leads redacted")

	return redacted, nil
}
