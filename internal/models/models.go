package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User account statuses. New registrations start as pending and are
// approved by an admin before they can launch campaigns.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusSuspended = "suspended"
)

// User represents a customer account
type User struct {
	BaseModel
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name"`
	Company      string    `json:"company"`
	Role         string    `json:"role" gorm:"not null;default:user"`
	Status       string    `json:"status" gorm:"not null;default:pending"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Config represents the global configuration for the deployment
// This is a singleton model (only one row should exist)
type Config struct {
	BaseModel
	// Authentication configuration
	JWTSecret string `json:"-" gorm:"type:varchar(64);not null"` // Auto-generated on first setup (64 hex chars)

	// Public API key for the location-autocomplete service, served to
	// authenticated dashboard clients that have no build-time key
	PlacesAPIKey string `json:"places_api_key" gorm:"type:varchar(128)"`

	// Metrics refresh configuration
	MetricsRefreshSchedule string     `json:"metrics_refresh_schedule"` // Cron expression, empty = no periodic refresh
	LastRefreshedAt        *time.Time `json:"last_refreshed_at"`
	NextRefreshAt          *time.Time `json:"next_refresh_at"` // Calculated from cron schedule
}

// Campaign statuses
const (
	CampaignDraft     = "draft"
	CampaignLaunching = "launching"
	CampaignActive    = "active"
	CampaignPaused    = "paused"
	CampaignFailed    = "failed"
)

// Campaign represents an ad campaign composed by the creation wizard.
// Targeting is stored as the JSON document the wizard submitted; the
// budget and creative fields are flattened for querying.
type Campaign struct {
	BaseModel
	Name        string  `json:"name" gorm:"not null"`
	Platform    string  `json:"platform" gorm:"not null"` // engine id, e.g. "meta-facebook"
	Objective   string  `json:"objective" gorm:"not null"`
	Status      string  `json:"status" gorm:"not null;default:draft"`
	Targeting   string  `json:"-" gorm:"type:text"` // JSON: countries, languages, age range
	DailyBudget float64 `json:"daily_budget" gorm:"not null;default:0"`
	Headline    string  `json:"headline"`
	PrimaryText string  `json:"primary_text" gorm:"type:text"`

	CreatedByID string     `json:"created_by_id" gorm:"not null"`
	LaunchedAt  *time.Time `json:"launched_at"`

	// Rollups maintained by the metrics refresh worker
	LeadCount        int        `json:"lead_count" gorm:"not null;default:0"`
	SpendToDate      float64    `json:"spend_to_date" gorm:"not null;default:0"`
	MetricsUpdatedAt *time.Time `json:"metrics_updated_at"`

	// Relationships
	CreatedBy *User  `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE"`
	Leads     []Lead `json:"leads,omitempty" gorm:"foreignKey:CampaignID"`
}

// Lead statuses
const (
	LeadNew       = "new"
	LeadScored    = "scored"
	LeadQualified = "qualified"
	LeadDiscarded = "discarded"
)

// Lead represents a prospect captured through a landing page form.
// Scoring is performed asynchronously by the worker after capture.
type Lead struct {
	BaseModel
	Email      string     `json:"email" gorm:"not null"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Company    string     `json:"company"`
	Message    string     `json:"message" gorm:"type:text"`
	Source     string     `json:"source" gorm:"not null;default:landing"`
	Status     string     `json:"status" gorm:"not null;default:new"`
	Score      int        `json:"score" gorm:"not null;default:0"`
	ScoredAt   *time.Time `json:"scored_at"`
	CampaignID *string    `json:"campaign_id"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Campaign *Campaign `json:"campaign,omitempty" gorm:"foreignKey:CampaignID;constraint:OnDelete:SET NULL"`
}

// WizardDraft persists a user's in-progress campaign wizard state so an
// interrupted session can be resumed. One draft per user.
type WizardDraft struct {
	BaseModel
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex"`
	Step      int       `json:"step" gorm:"not null;default:0"`
	Form      string    `json:"form" gorm:"type:text"` // serialized wizard form data
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Integration statuses
const (
	IntegrationPending      = "pending"
	IntegrationConnected    = "connected"
	IntegrationDisconnected = "disconnected"
)

// Integration represents a user's OAuth connection to an ad platform.
// The actual token exchange happens on backend-hosted OAuth routes; this
// record only tracks connection state and the external account reference.
type Integration struct {
	BaseModel
	UserID      string     `json:"user_id" gorm:"not null;uniqueIndex:idx_user_platform"`
	Platform    string     `json:"platform" gorm:"not null;uniqueIndex:idx_user_platform"`
	Status      string     `json:"status" gorm:"not null;default:pending"`
	AccountRef  string     `json:"account_ref"` // external ad-account identifier
	OAuthState  string     `json:"-" gorm:"column:oauth_state;index"` // single-use nonce binding the OAuth callback to this row
	ConnectedAt *time.Time `json:"connected_at"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// EngineSchema stores a custom form schema for one engine, overriding
// the built-in schema the engines package falls back to
type EngineSchema struct {
	BaseModel
	Engine    string    `json:"engine" gorm:"not null;uniqueIndex"`
	Fields    string    `json:"fields" gorm:"type:text;not null"` // JSON array of field descriptors
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	// Collect all models
	models := []interface{}{
		&User{}, &Config{}, &Campaign{}, &Lead{}, &WizardDraft{}, &Integration{}, &EngineSchema{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}

// FindByIDWithPreload finds a record by ID with preloading
func FindByIDWithPreload[T any](db *gorm.DB, id string, model *T, preloads ...string) error {
	query := db
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	return query.Where("id = ?", id).First(model).Error
}
