// Package server
//
// @title Reachly API
// @version 1.0
// @description Customer-facing API for the Reachly advertising platform
// @host localhost:8080
// @BasePath /
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/reachly-dev/reachly/internal/auth"
	"github.com/reachly-dev/reachly/internal/config"
	"github.com/reachly-dev/reachly/internal/engines"
	"github.com/reachly-dev/reachly/internal/models"
)

// Server represents the HTTP server
type Server struct {
	router      *gin.Engine
	db          *gorm.DB
	config      *config.Config
	logger      zerolog.Logger
	validator   *validator.Validate
	asynqClient *asynq.Client
	version     string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	// Initialize database with production settings
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	// Run database migrations
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	// Initialize JWT authentication
	// Load JWT secret from database (auto-generated when the first
	// account registers)
	var appConfig models.Config
	if err := db.First(&appConfig).Error; err == nil {
		auth.InitializeJWT(appConfig.JWTSecret)
		zlog.Debug().Msg("Loaded JWT secret from database")
	} else {
		zlog.Info().Msg("No config found - JWT will be initialized on first registration")
	}

	// Initialize validator
	validate := validator.New()

	// Register custom validators, both on the server's validator and on
	// gin's binding engine so request structs can use the tag directly
	platformID := func(fl validator.FieldLevel) bool {
		return engines.IsKnown(fl.Field().String())
	}
	validate.RegisterValidation("platformid", platformID)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("platformid", platformID)
	}

	// Initialize Asynq client for enqueueing tasks
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: cfg.Redis.Address,
	})

	// Create server
	server := &Server{
		db:          db,
		config:      cfg,
		logger:      zlog,
		validator:   validate,
		asynqClient: asynqClient,
		version:     version,
	}

	// Setup router
	server.setupRouter()

	return server, nil
}

// initDatabase initializes the database connection with production settings
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns      = 8         // Reduced for SQLite efficiency
		maxIdleConns      = 4         // Reduced proportionally
		connMaxLifetime   = 300       // 5 minutes
		busyTimeout       = 5000      // 5 seconds
		cacheSize         = 10000     // 10MB
		mmapSize          = 134217728 // 128MB
		walAutocheckpoint = 1000      // WAL auto-checkpoint pages
	)

	// Open database connection
	db, err := gorm.Open(sqlite.Open(cfg.Database.URL), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool settings
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply SQLite pragmas directly (connection string pragmas may not work with all drivers)
	// WAL mode must be set first for optimal concurrency
	pragmas := []string{
		"PRAGMA journal_mode=WAL", // Enable WAL mode for better concurrency
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA wal_autocheckpoint=%d", walAutocheckpoint),
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		fmt.Sprintf("PRAGMA cache_size=-%d", cacheSize),
		"PRAGMA foreign_keys=1",
		"PRAGMA temp_store=2",
		fmt.Sprintf("PRAGMA mmap_size=%d", mmapSize),
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "https://app.reachly.io"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// Public endpoints (no auth required)
	s.router.POST("/api/auth/register", s.register)
	s.router.POST("/api/auth/login", s.login)
	s.router.POST("/api/leads/landing", s.captureLandingLead)

	// OAuth flow for platform integrations. Reached by browser redirect,
	// so no bearer token; the state nonce ties the callback to its row.
	s.router.GET("/api/oauth/:platform/start", s.oauthStart)
	s.router.GET("/api/oauth/:platform/callback", s.oauthCallback)

	// Authenticated API routes (JWT required)
	api := s.router.Group("/api")
	api.Use(JWTAuthMiddleware(s.db, s.logger))
	{
		// Auth endpoints
		api.GET("/auth/me", s.getCurrentUser)

		// System information
		api.GET("/system/info", s.getSystemInfo)

		// User management (admin only)
		userRoutes := api.Group("/users")
		userRoutes.Use(AdminOnlyMiddleware(s.logger))
		{
			userRoutes.GET("", s.listUsers)
			userRoutes.PATCH("/:id", s.updateUserStatus)
			userRoutes.DELETE("/:id", s.deleteUser)
		}

		// Global configuration (admin only except the places key)
		api.GET("/config/places-key", s.getPlacesKey)
		configRoutes := api.Group("/config")
		configRoutes.Use(AdminOnlyMiddleware(s.logger))
		{
			configRoutes.GET("", s.getConfig)
			configRoutes.PATCH("", s.updateConfig)
		}

		// Engines and form schemas
		api.GET("/ai/engines", s.listEngines)
		api.GET("/ai/engines/:id/schema", s.getEngineSchema)

		// Targeting lookups
		api.GET("/targeting/countries", s.listCountries)
		api.GET("/targeting/languages", s.listLanguages)
		api.GET("/targeting/interests", s.listInterests)
		api.GET("/targeting/states", s.listStates)
		api.GET("/targeting/cities", s.listCities)

		// Campaigns
		api.GET("/campaigns", s.listCampaigns)
		api.POST("/campaigns", s.createCampaign)
		api.GET("/campaigns/:id", s.getCampaign)
		api.PATCH("/campaigns/:id", s.updateCampaign)
		api.DELETE("/campaigns/:id", s.deleteCampaign)
		api.POST("/campaigns/:id/launch", ApprovedOnlyMiddleware(s.logger), s.launchCampaign)

		// Wizard draft persistence
		api.GET("/wizard/draft", s.getWizardDraft)
		api.PUT("/wizard/draft", s.saveWizardDraft)
		api.DELETE("/wizard/draft", s.deleteWizardDraft)

		// Leads
		api.GET("/leads", s.listLeads)
		api.GET("/leads/:id", s.getLead)
		api.PATCH("/leads/:id", s.updateLeadStatus)

		// Platform integrations
		api.GET("/integrations", s.listIntegrations)
		api.POST("/integrations/:platform/connect", s.connectIntegration)
		api.DELETE("/integrations/:platform", s.disconnectIntegration)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// @Router /health [get]
// @Success 200 {object} map[string]interface{}
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "reachly-api",
	})
}

// GetDB returns the database connection for use by workers
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Router exposes the gin engine for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	port := ":8080"

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create HTTP server with production timeouts
	srv := &http.Server{
		Addr:              port,
		Handler:           s.router,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	// Start server in goroutine
	go func() {
		s.logger.Info().Str("port", port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	// Close Asynq client
	if err := s.asynqClient.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Error closing Asynq client")
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info().Msg("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}

	return nil
}
