package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reachly-dev/reachly/internal/targeting"
)

// @Summary List targeting countries
// @Tags targeting
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /api/targeting/countries [get]
func (s *Server) listCountries(c *gin.Context) {
	countries, err := targeting.Countries()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load targeting data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, countries)
}

// @Summary List targeting languages
// @Tags targeting
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /api/targeting/languages [get]
func (s *Server) listLanguages(c *gin.Context) {
	languages, err := targeting.Languages()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load targeting data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, languages)
}

// @Summary List targeting interests
// @Tags targeting
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /api/targeting/interests [get]
func (s *Server) listInterests(c *gin.Context) {
	interests, err := targeting.Interests()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load targeting data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, interests)
}

// @Summary List states for a country
// @Tags targeting
// @Produce json
// @Security BearerAuth
// @Param country query string true "Country name"
// @Success 200 {array} string
// @Failure 400 {object} map[string]interface{}
// @Router /api/targeting/states [get]
func (s *Server) listStates(c *gin.Context) {
	country := c.Query("country")
	if country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country query parameter is required"})
		return
	}
	if !targeting.IsCountry(country) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown country"})
		return
	}
	states, err := targeting.States(country)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load targeting data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, states)
}

// @Summary List cities for a country
// @Tags targeting
// @Produce json
// @Security BearerAuth
// @Param country query string true "Country name"
// @Success 200 {array} string
// @Failure 400 {object} map[string]interface{}
// @Router /api/targeting/cities [get]
func (s *Server) listCities(c *gin.Context) {
	country := c.Query("country")
	if country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country query parameter is required"})
		return
	}
	if !targeting.IsCountry(country) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown country"})
		return
	}
	cities, err := targeting.Cities(country)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load targeting data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, cities)
}
