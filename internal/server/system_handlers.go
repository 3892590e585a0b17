package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reachly-dev/reachly/internal/models"
	"github.com/reachly-dev/reachly/internal/sysinfo"
)

// SystemInfoResponse summarizes the deployment for the admin dashboard
type SystemInfoResponse struct {
	Version string           `json:"version"`
	Counts  SystemCounts     `json:"counts"`
	Host    *sysinfo.Metrics `json:"host,omitempty"`
}

// SystemCounts holds row counts of the main entities
type SystemCounts struct {
	Users           int64 `json:"users"`
	Campaigns       int64 `json:"campaigns"`
	ActiveCampaigns int64 `json:"active_campaigns"`
	Leads           int64 `json:"leads"`
}

// @Summary Get system info
// @Description Report the server version, entity counts, and host metrics
// @Tags system
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SystemInfoResponse
// @Router /api/system/info [get]
func (s *Server) getSystemInfo(c *gin.Context) {
	resp := SystemInfoResponse{Version: s.version}

	s.db.Model(&models.User{}).Count(&resp.Counts.Users)
	s.db.Model(&models.Campaign{}).Count(&resp.Counts.Campaigns)
	s.db.Model(&models.Campaign{}).Where("status = ?", models.CampaignActive).Count(&resp.Counts.ActiveCampaigns)
	s.db.Model(&models.Lead{}).Count(&resp.Counts.Leads)

	// Host metrics are best-effort; containerized deployments without
	// /proc access still get version and counts.
	if metrics, err := sysinfo.GetMetrics(s.config.Database.URL); err == nil {
		resp.Host = &metrics
	} else {
		s.logger.Debug().Err(err).Msg("Host metrics unavailable")
	}

	c.JSON(http.StatusOK, resp)
}
