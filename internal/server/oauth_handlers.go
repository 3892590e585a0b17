package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reachly-dev/reachly/internal/engines"
	"github.com/reachly-dev/reachly/internal/models"
)

// @Summary Start a platform OAuth flow
// @Description Issue a single-use state nonce for the pending integration and
// @Description redirect into the platform's consent flow. The routes are public:
// @Description the browser lands here from the connect endpoint's auth_url, and
// @Description the state nonce is what binds the flow back to the integration.
// @Tags integrations
// @Param platform path string true "Engine ID"
// @Param integration query string true "Integration ID"
// @Success 302
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/oauth/{platform}/start [get]
func (s *Server) oauthStart(c *gin.Context) {
	platform := c.Param("platform")
	if !engines.IsKnown(platform) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown platform"})
		return
	}

	integrationID := c.Query("integration")
	if integrationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing integration parameter"})
		return
	}

	var integration models.Integration
	err := s.db.Where("id = ? AND platform = ?", integrationID, platform).First(&integration).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Integration not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load integration")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if integration.Status != models.IntegrationPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Integration is not awaiting connection"})
		return
	}

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate OAuth state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	state := hex.EncodeToString(stateBytes)

	integration.OAuthState = state
	if err := s.db.Save(&integration).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to save OAuth state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// No platform app credentials are configured, so the external consent
	// hop is skipped and the redirect lands directly on the callback.
	c.Redirect(http.StatusFound, fmt.Sprintf("/api/oauth/%s/callback?state=%s", platform, state))
}

// @Summary Complete a platform OAuth flow
// @Description Consume the state nonce and mark the integration connected,
// @Description recording the linked ad-account reference.
// @Tags integrations
// @Produce json
// @Param platform path string true "Engine ID"
// @Param state query string true "State nonce from the start redirect"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/oauth/{platform}/callback [get]
func (s *Server) oauthCallback(c *gin.Context) {
	platform := c.Param("platform")
	state := c.Query("state")
	if state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing state parameter"})
		return
	}

	var integration models.Integration
	err := s.db.Where("platform = ? AND oauth_state = ? AND status = ?",
		platform, state, models.IntegrationPending).First(&integration).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired state"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load integration")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	now := time.Now()
	integration.Status = models.IntegrationConnected
	integration.ConnectedAt = &now
	integration.AccountRef = fmt.Sprintf("%s:%s", platform, strings.ToLower(integration.ID))
	integration.OAuthState = ""
	if err := s.db.Save(&integration).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to connect integration")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to connect integration"})
		return
	}

	s.logger.Info().
		Str("integration_id", integration.ID).
		Str("platform", platform).
		Str("account_ref", integration.AccountRef).
		Msg("Integration connected")

	c.JSON(http.StatusOK, gin.H{
		"status":      models.IntegrationConnected,
		"platform":    platform,
		"account_ref": integration.AccountRef,
	})
}
