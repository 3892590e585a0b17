package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reachly-dev/reachly/internal/models"
)

// SaveDraftRequest carries the serialized wizard state. The form is kept
// opaque server-side; the wizard owns its shape.
type SaveDraftRequest struct {
	Step int             `json:"step" binding:"gte=0,lte=4"`
	Form json.RawMessage `json:"form" binding:"required"`
}

// DraftResponse returns the saved wizard state
type DraftResponse struct {
	Step      int             `json:"step"`
	Form      json.RawMessage `json:"form"`
	UpdatedAt string          `json:"updated_at"`
}

// @Summary Get wizard draft
// @Description Fetch the user's saved campaign wizard draft
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DraftResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/wizard/draft [get]
func (s *Server) getWizardDraft(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var draft models.WizardDraft
	if err := s.db.Where("user_id = ?", sessionData.UserID).First(&draft).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "No saved draft"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load draft")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, DraftResponse{
		Step:      draft.Step,
		Form:      json.RawMessage(draft.Form),
		UpdatedAt: draft.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// @Summary Save wizard draft
// @Description Persist the wizard state; called after every step transition
// @Tags wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SaveDraftRequest true "Wizard state"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/wizard/draft [put]
func (s *Server) saveWizardDraft(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var draft models.WizardDraft
	err := s.db.Where("user_id = ?", sessionData.UserID).First(&draft).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		draft = models.WizardDraft{
			UserID: sessionData.UserID,
			Step:   req.Step,
			Form:   string(req.Form),
		}
		if err := s.db.Create(&draft).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to create draft")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save draft"})
			return
		}
	case err != nil:
		s.logger.Error().Err(err).Msg("Failed to load draft")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	default:
		draft.Step = req.Step
		draft.Form = string(req.Form)
		if err := s.db.Save(&draft).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to update draft")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save draft"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// @Summary Delete wizard draft
// @Description Discard the saved draft (called after a successful submit)
// @Tags wizard
// @Security BearerAuth
// @Success 204
// @Router /api/wizard/draft [delete]
func (s *Server) deleteWizardDraft(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	if err := s.db.Where("user_id = ?", sessionData.UserID).Delete(&models.WizardDraft{}).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete draft")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete draft"})
		return
	}

	c.Status(http.StatusNoContent)
}
