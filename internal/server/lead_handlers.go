package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reachly-dev/reachly/internal/models"
	"github.com/reachly-dev/reachly/internal/tasks"
)

// CaptureLeadRequest is the payload posted by landing page forms.
// This endpoint is public; campaign_id ties the lead back to the ad
// that drove the visit when the landing page embeds it.
type CaptureLeadRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Name       string  `json:"name" binding:"max=200"`
	Phone      string  `json:"phone" binding:"max=50"`
	Company    string  `json:"company" binding:"max=200"`
	Message    string  `json:"message" binding:"max=5000"`
	CampaignID *string `json:"campaign_id"`
}

// UpdateLeadRequest changes a lead's pipeline status
type UpdateLeadRequest struct {
	Status string `json:"status" binding:"required,oneof=new scored qualified discarded"`
}

// @Summary Capture a lead
// @Description Record a lead submitted through a landing page form and queue it for scoring
// @Tags leads
// @Accept json
// @Produce json
// @Param request body CaptureLeadRequest true "Lead details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/leads/landing [post]
func (s *Server) captureLandingLead(c *gin.Context) {
	var req CaptureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Silently detach leads pointing at campaigns that no longer exist
	// rather than rejecting the submission; landing pages can outlive
	// the campaigns that published them.
	if req.CampaignID != nil {
		var count int64
		s.db.Model(&models.Campaign{}).Where("id = ?", *req.CampaignID).Count(&count)
		if count == 0 {
			req.CampaignID = nil
		}
	}

	lead := models.Lead{
		Email:      req.Email,
		Name:       req.Name,
		Phone:      req.Phone,
		Company:    req.Company,
		Message:    req.Message,
		Source:     "landing",
		Status:     models.LeadNew,
		CampaignID: req.CampaignID,
	}

	if err := s.db.Create(&lead).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create lead")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record lead"})
		return
	}

	// The lead is stored either way; scoring can be retried later, so
	// enqueue failures don't fail the capture.
	if task, err := tasks.NewScoreLeadTask(lead.ID); err != nil {
		s.logger.Error().Err(err).Str("lead_id", lead.ID).Msg("Failed to build scoring task")
	} else if _, err := s.asynqClient.Enqueue(task); err != nil {
		s.logger.Error().Err(err).Str("lead_id", lead.ID).Msg("Failed to enqueue lead scoring")
	}

	c.JSON(http.StatusCreated, gin.H{"id": lead.ID})
}

// @Summary List leads
// @Description List leads captured for the user's campaigns (all leads for admins)
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Lead
// @Router /api/leads [get]
func (s *Server) listLeads(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	query := s.db.Preload("Campaign").Order("created_at DESC")
	if !sessionData.IsAdmin() {
		query = query.Joins("LEFT JOIN campaigns ON campaigns.id = leads.campaign_id").
			Where("campaigns.created_by_id = ?", sessionData.UserID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("leads.status = ?", status)
	}
	if campaignID := c.Query("campaign_id"); campaignID != "" {
		query = query.Where("leads.campaign_id = ?", campaignID)
	}

	var leads []models.Lead
	if err := query.Find(&leads).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list leads")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, leads)
}

// findOwnedLead loads a lead the session user may see. Non-admins only
// see leads attached to their own campaigns; missing and forbidden both
// come back as not-found.
func (s *Server) findOwnedLead(c *gin.Context, id string) (*models.Lead, bool) {
	sessionData, _ := GetSessionData(c)

	var lead models.Lead
	if err := s.db.Preload("Campaign").First(&lead, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return nil, false
		}
		s.logger.Error().Err(err).Msg("Failed to load lead")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}

	if !sessionData.IsAdmin() {
		if lead.Campaign == nil || lead.Campaign.CreatedByID != sessionData.UserID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return nil, false
		}
	}

	return &lead, true
}

// @Summary Get lead
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} models.Lead
// @Failure 404 {object} map[string]interface{}
// @Router /api/leads/{id} [get]
func (s *Server) getLead(c *gin.Context) {
	lead, ok := s.findOwnedLead(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, lead)
}

// @Summary Update lead status
// @Description Move a lead through the pipeline (qualify or discard)
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body UpdateLeadRequest true "New status"
// @Success 200 {object} models.Lead
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/leads/{id} [patch]
func (s *Server) updateLeadStatus(c *gin.Context) {
	lead, ok := s.findOwnedLead(c, c.Param("id"))
	if !ok {
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead.Status = req.Status
	if err := s.db.Save(lead).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update lead")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lead"})
		return
	}

	c.JSON(http.StatusOK, lead)
}
