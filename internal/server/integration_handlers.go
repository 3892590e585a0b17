package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reachly-dev/reachly/internal/engines"
	"github.com/reachly-dev/reachly/internal/models"
)

// @Summary List integrations
// @Description List the user's ad platform connections
// @Tags integrations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Integration
// @Router /api/integrations [get]
func (s *Server) listIntegrations(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var integrations []models.Integration
	if err := s.db.Where("user_id = ?", sessionData.UserID).Order("platform").Find(&integrations).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list integrations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, integrations)
}

// @Summary Connect an ad platform
// @Description Create (or reset) the integration record and return the URL that
// @Description starts the platform's OAuth flow. Token exchange happens on the
// @Description OAuth callback routes, not here.
// @Tags integrations
// @Produce json
// @Security BearerAuth
// @Param platform path string true "Engine ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/integrations/{platform}/connect [post]
func (s *Server) connectIntegration(c *gin.Context) {
	sessionData, _ := GetSessionData(c)
	platform := c.Param("platform")

	if !engines.IsKnown(platform) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown platform"})
		return
	}

	var integration models.Integration
	err := s.db.Where("user_id = ? AND platform = ?", sessionData.UserID, platform).First(&integration).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		integration = models.Integration{
			UserID:   sessionData.UserID,
			Platform: platform,
			Status:   models.IntegrationPending,
		}
		if err := s.db.Create(&integration).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to create integration")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create integration"})
			return
		}
	case err != nil:
		s.logger.Error().Err(err).Msg("Failed to load integration")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	default:
		// Reconnecting restarts the flow
		integration.Status = models.IntegrationPending
		integration.ConnectedAt = nil
		integration.AccountRef = ""
		integration.OAuthState = ""
		if err := s.db.Save(&integration).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to reset integration")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset integration"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"integration": integration,
		"auth_url":    fmt.Sprintf("/api/oauth/%s/start?integration=%s", platform, integration.ID),
	})
}

// @Summary Disconnect an ad platform
// @Tags integrations
// @Security BearerAuth
// @Param platform path string true "Engine ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/integrations/{platform} [delete]
func (s *Server) disconnectIntegration(c *gin.Context) {
	sessionData, _ := GetSessionData(c)
	platform := c.Param("platform")

	var integration models.Integration
	if err := s.db.Where("user_id = ? AND platform = ?", sessionData.UserID, platform).First(&integration).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Integration not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load integration")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	integration.Status = models.IntegrationDisconnected
	integration.ConnectedAt = nil
	integration.AccountRef = ""
	integration.OAuthState = ""
	if err := s.db.Save(&integration).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to disconnect integration")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disconnect integration"})
		return
	}

	c.Status(http.StatusNoContent)
}
