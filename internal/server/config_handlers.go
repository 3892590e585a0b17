package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/reachly-dev/reachly/internal/models"
)

// UpdateConfigRequest updates deployment-wide settings. Pointer fields
// distinguish "not sent" from "set to empty".
type UpdateConfigRequest struct {
	PlacesAPIKey           *string `json:"places_api_key"`
	MetricsRefreshSchedule *string `json:"metrics_refresh_schedule"`
}

// ConfigResponse is the admin view of the deployment configuration
type ConfigResponse struct {
	PlacesAPIKey           string     `json:"places_api_key"`
	MetricsRefreshSchedule string     `json:"metrics_refresh_schedule"`
	LastRefreshedAt        *time.Time `json:"last_refreshed_at"`
	NextRefreshAt          *time.Time `json:"next_refresh_at"`
}

// loadConfig fetches the singleton config row
func (s *Server) loadConfig() (*models.Config, error) {
	var cfg models.Config
	if err := s.db.First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// @Summary Get deployment configuration
// @Tags config
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ConfigResponse
// @Router /api/config [get]
func (s *Server) getConfig(c *gin.Context) {
	cfg, err := s.loadConfig()
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusOK, ConfigResponse{})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, ConfigResponse{
		PlacesAPIKey:           cfg.PlacesAPIKey,
		MetricsRefreshSchedule: cfg.MetricsRefreshSchedule,
		LastRefreshedAt:        cfg.LastRefreshedAt,
		NextRefreshAt:          cfg.NextRefreshAt,
	})
}

// @Summary Update deployment configuration
// @Tags config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateConfigRequest true "Settings to change"
// @Success 200 {object} ConfigResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/config [patch]
func (s *Server) updateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := s.loadConfig()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if req.PlacesAPIKey != nil {
		cfg.PlacesAPIKey = *req.PlacesAPIKey
	}

	if req.MetricsRefreshSchedule != nil {
		schedule := *req.MetricsRefreshSchedule
		if schedule == "" {
			cfg.MetricsRefreshSchedule = ""
			cfg.NextRefreshAt = nil
		} else {
			parsed, err := cron.ParseStandard(schedule)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cron expression: " + err.Error()})
				return
			}
			cfg.MetricsRefreshSchedule = schedule
			next := parsed.Next(time.Now())
			cfg.NextRefreshAt = &next
		}
	}

	if err := s.db.Save(cfg).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to save config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save config"})
		return
	}

	c.JSON(http.StatusOK, ConfigResponse{
		PlacesAPIKey:           cfg.PlacesAPIKey,
		MetricsRefreshSchedule: cfg.MetricsRefreshSchedule,
		LastRefreshedAt:        cfg.LastRefreshedAt,
		NextRefreshAt:          cfg.NextRefreshAt,
	})
}

// @Summary Get the location-autocomplete API key
// @Description Serve the public places key to authenticated clients that have
// @Description no build-time key. The environment key wins over the stored one.
// @Tags config
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/config/places-key [get]
func (s *Server) getPlacesKey(c *gin.Context) {
	if key := s.config.Places.APIKey; key != "" {
		c.JSON(http.StatusOK, gin.H{"api_key": key})
		return
	}

	cfg, err := s.loadConfig()
	if err == nil && cfg.PlacesAPIKey != "" {
		c.JSON(http.StatusOK, gin.H{"api_key": cfg.PlacesAPIKey})
		return
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		s.logger.Error().Err(err).Msg("Failed to load config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "No places API key configured"})
}
