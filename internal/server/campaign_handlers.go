package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reachly-dev/reachly/internal/engines"
	"github.com/reachly-dev/reachly/internal/models"
	"github.com/reachly-dev/reachly/internal/tasks"
)

// TargetingRequest is the targeting block of a campaign submission
type TargetingRequest struct {
	Countries []string `json:"countries" binding:"required,min=1"`
	Languages []string `json:"languages"`
	AgeMin    int      `json:"age_min" binding:"omitempty,gte=13"`
	AgeMax    int      `json:"age_max" binding:"omitempty,lte=100"`
}

// BudgetRequest is the budget block of a campaign submission
type BudgetRequest struct {
	Daily float64 `json:"daily" binding:"required,gt=0"`
}

// CreativeRequest is the ad creative block of a campaign submission
type CreativeRequest struct {
	Headline    string `json:"headline" binding:"required"`
	PrimaryText string `json:"primary_text"`
}

// CreateCampaignRequest is the single composed payload the wizard submits
type CreateCampaignRequest struct {
	Name      string           `json:"name"`
	Platform  string           `json:"platform" binding:"required,platformid"`
	Objective string           `json:"objective" binding:"required"`
	Targeting TargetingRequest `json:"targeting" binding:"required"`
	Budget    BudgetRequest    `json:"budget" binding:"required"`
	Creative  CreativeRequest  `json:"creative" binding:"required"`
}

// UpdateCampaignRequest represents a partial campaign update
type UpdateCampaignRequest struct {
	Name        string   `json:"name"`
	DailyBudget *float64 `json:"daily_budget"`
	Headline    string   `json:"headline"`
	PrimaryText string   `json:"primary_text"`
	Status      string   `json:"status" binding:"omitempty,oneof=active paused"`
}

// CampaignDetail is the campaign resource returned to clients, with the
// stored targeting document decoded back into structure
type CampaignDetail struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Platform         string          `json:"platform"`
	Objective        string          `json:"objective"`
	Status           string          `json:"status"`
	Targeting        json.RawMessage `json:"targeting,omitempty"`
	DailyBudget      float64         `json:"daily_budget"`
	Headline         string          `json:"headline"`
	PrimaryText      string          `json:"primary_text"`
	LeadCount        int             `json:"lead_count"`
	SpendToDate      float64         `json:"spend_to_date"`
	LaunchedAt       *time.Time      `json:"launched_at"`
	MetricsUpdatedAt *time.Time      `json:"metrics_updated_at"`
	CreatedAt        time.Time       `json:"created_at"`
}

func campaignDetail(campaign *models.Campaign) CampaignDetail {
	detail := CampaignDetail{
		ID:               campaign.ID,
		Name:             campaign.Name,
		Platform:         campaign.Platform,
		Objective:        campaign.Objective,
		Status:           campaign.Status,
		DailyBudget:      campaign.DailyBudget,
		Headline:         campaign.Headline,
		PrimaryText:      campaign.PrimaryText,
		LeadCount:        campaign.LeadCount,
		SpendToDate:      campaign.SpendToDate,
		LaunchedAt:       campaign.LaunchedAt,
		MetricsUpdatedAt: campaign.MetricsUpdatedAt,
		CreatedAt:        campaign.CreatedAt,
	}
	if campaign.Targeting != "" {
		detail.Targeting = json.RawMessage(campaign.Targeting)
	}
	return detail
}

// findOwnedCampaign loads a campaign the session may act on: owners see
// their own, admins see all
func (s *Server) findOwnedCampaign(c *gin.Context) (*models.Campaign, bool) {
	sessionData, _ := GetSessionData(c)

	var campaign models.Campaign
	if err := models.FindByID(s.db, c.Param("id"), &campaign); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return nil, false
		}
		s.logger.Error().Err(err).Msg("Failed to find campaign")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}

	if campaign.CreatedByID != sessionData.UserID && !sessionData.IsAdmin() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return nil, false
	}

	return &campaign, true
}

// @Summary List campaigns
// @Description List the current user's campaigns (admins see all)
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CampaignDetail
// @Router /api/campaigns [get]
func (s *Server) listCampaigns(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	query := s.db.Order("created_at DESC")
	if !sessionData.IsAdmin() {
		query = query.Where("created_by_id = ?", sessionData.UserID)
	}

	var campaigns []models.Campaign
	if err := query.Find(&campaigns).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list campaigns")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	details := make([]CampaignDetail, len(campaigns))
	for i := range campaigns {
		details[i] = campaignDetail(&campaigns[i])
	}

	c.JSON(http.StatusOK, details)
}

// @Summary Create campaign
// @Description Create a campaign from the wizard's composed payload
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCampaignRequest true "Campaign specification"
// @Success 201 {object} CampaignDetail
// @Failure 400 {object} map[string]interface{}
// @Router /api/campaigns [post]
func (s *Server) createCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Objectives are platform-specific; reject combinations the selected
	// platform does not offer
	objectives, err := engines.Objectives(req.Platform)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown platform"})
		return
	}
	valid := false
	for _, o := range objectives {
		if o == req.Objective {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Objective is not available on the selected platform"})
		return
	}

	targetingJSON, err := json.Marshal(req.Targeting)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal targeting")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	sessionData, _ := GetSessionData(c)

	name := req.Name
	if name == "" {
		name = req.Platform + " campaign"
	}

	campaign := &models.Campaign{
		Name:        name,
		Platform:    req.Platform,
		Objective:   req.Objective,
		Status:      models.CampaignDraft,
		Targeting:   string(targetingJSON),
		DailyBudget: req.Budget.Daily,
		Headline:    req.Creative.Headline,
		PrimaryText: req.Creative.PrimaryText,
		CreatedByID: sessionData.UserID,
	}

	if err := s.db.Create(campaign).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create campaign")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create campaign"})
		return
	}

	s.logger.Info().
		Str("campaign_id", campaign.ID).
		Str("platform", campaign.Platform).
		Str("created_by", sessionData.UserID).
		Msg("Campaign created")

	c.JSON(http.StatusCreated, campaignDetail(campaign))
}

// @Summary Get campaign
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} CampaignDetail
// @Failure 404 {object} map[string]interface{}
// @Router /api/campaigns/{id} [get]
func (s *Server) getCampaign(c *gin.Context) {
	campaign, ok := s.findOwnedCampaign(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, campaignDetail(campaign))
}

// @Summary Update campaign
// @Description Update name, budget, creative, or pause/resume
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Param request body UpdateCampaignRequest true "Updates"
// @Success 200 {object} CampaignDetail
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/campaigns/{id} [patch]
func (s *Server) updateCampaign(c *gin.Context) {
	campaign, ok := s.findOwnedCampaign(c)
	if !ok {
		return
	}

	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != "" {
		campaign.Name = req.Name
	}
	if req.DailyBudget != nil {
		if *req.DailyBudget <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Daily budget must be greater than zero"})
			return
		}
		campaign.DailyBudget = *req.DailyBudget
	}
	if req.Headline != "" {
		campaign.Headline = req.Headline
	}
	if req.PrimaryText != "" {
		campaign.PrimaryText = req.PrimaryText
	}
	if req.Status != "" {
		// Pause/resume applies only to campaigns that have launched
		if campaign.Status != models.CampaignActive && campaign.Status != models.CampaignPaused {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only launched campaigns can be paused or resumed"})
			return
		}
		campaign.Status = req.Status
	}

	if err := s.db.Save(campaign).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update campaign")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update campaign"})
		return
	}

	c.JSON(http.StatusOK, campaignDetail(campaign))
}

// @Summary Delete campaign
// @Tags campaigns
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/campaigns/{id} [delete]
func (s *Server) deleteCampaign(c *gin.Context) {
	campaign, ok := s.findOwnedCampaign(c)
	if !ok {
		return
	}

	if err := s.db.Delete(campaign).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete campaign")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete campaign"})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Launch campaign
// @Description Queue a draft campaign for launch on its platform
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 202 {object} CampaignDetail
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/campaigns/{id}/launch [post]
func (s *Server) launchCampaign(c *gin.Context) {
	campaign, ok := s.findOwnedCampaign(c)
	if !ok {
		return
	}

	if campaign.Status != models.CampaignDraft {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only draft campaigns can be launched"})
		return
	}

	campaign.Status = models.CampaignLaunching
	if err := s.db.Save(campaign).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update campaign")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to launch campaign"})
		return
	}

	task, err := tasks.NewLaunchCampaignTask(campaign.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create launch task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to launch campaign"})
		return
	}
	if _, err := s.asynqClient.Enqueue(task); err != nil {
		s.logger.Error().Err(err).Msg("Failed to enqueue launch task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to launch campaign"})
		return
	}

	s.logger.Info().Str("campaign_id", campaign.ID).Msg("Campaign launch queued")

	c.JSON(http.StatusAccepted, campaignDetail(campaign))
}
