package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reachly-dev/reachly/internal/engines"
	"github.com/reachly-dev/reachly/internal/models"
)

// @Summary List ad engines
// @Description List the supported advertising platforms and their objectives
// @Tags engines
// @Produce json
// @Security BearerAuth
// @Success 200 {array} engines.Engine
// @Router /api/ai/engines [get]
func (s *Server) listEngines(c *gin.Context) {
	c.JSON(http.StatusOK, engines.All())
}

// @Summary Get engine form schema
// @Description Return the creation-form schema for an engine. A custom schema
// @Description stored for the engine overrides the built-in one.
// @Tags engines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Engine ID"
// @Success 200 {object} engines.Schema
// @Failure 404 {object} map[string]interface{}
// @Router /api/ai/engines/{id}/schema [get]
func (s *Server) getEngineSchema(c *gin.Context) {
	engineID := c.Param("id")

	var custom models.EngineSchema
	err := s.db.Where("engine = ?", engineID).First(&custom).Error
	switch {
	case err == nil:
		var fields []engines.Field
		if err := json.Unmarshal([]byte(custom.Fields), &fields); err != nil {
			s.logger.Error().Err(err).Str("engine", engineID).Msg("Stored schema is not valid JSON")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, engines.Schema{
			Engine: engineID,
			Kind:   engines.SchemaCustom,
			Fields: fields,
		})
	case err == gorm.ErrRecordNotFound:
		schema, err := engines.BuiltinSchema(engineID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown engine"})
			return
		}
		c.JSON(http.StatusOK, schema)
	default:
		s.logger.Error().Err(err).Msg("Failed to load engine schema")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
