// Package engines defines the advertising platforms a campaign can be
// created on, their objective lists, and the form schema each platform's
// creation form renders from.
package engines

import "fmt"

// SchemaKind discriminates between the built-in schema of a known engine
// and a custom schema stored server-side for bespoke integrations.
type SchemaKind string

const (
	SchemaBuiltin SchemaKind = "builtin"
	SchemaCustom  SchemaKind = "custom"
)

// FieldType enumerates the input types a schema field can render as
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldSelect FieldType = "select"
	FieldMulti  FieldType = "multiselect"
)

// Field describes one input of a campaign creation form
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"` // for select/multiselect
}

// Schema is the form description for one engine
type Schema struct {
	Engine string     `json:"engine"`
	Kind   SchemaKind `json:"kind"`
	Fields []Field    `json:"fields"`
}

// Engine describes one advertising platform backend
type Engine struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Objectives []string `json:"objectives"`
}

// registry lists the supported platforms in display order. Objective
// lists are platform-specific: the wizard seeds its objective step from
// the selected platform's list and defaults to the first entry.
var registry = []Engine{
	{ID: "meta-facebook", Name: "Meta (Facebook)", Objectives: []string{"CONVERSIONS", "LEAD_GENERATION", "TRAFFIC", "BRAND_AWARENESS", "REACH"}},
	{ID: "meta-instagram", Name: "Meta (Instagram)", Objectives: []string{"CONVERSIONS", "TRAFFIC", "ENGAGEMENT", "REACH"}},
	{ID: "google-ads", Name: "Google Ads", Objectives: []string{"SALES", "LEADS", "WEBSITE_TRAFFIC", "AWARENESS"}},
	{ID: "tiktok", Name: "TikTok Ads", Objectives: []string{"TRAFFIC", "CONVERSIONS", "COMMUNITY_INTERACTION", "VIDEO_VIEWS"}},
	{ID: "linkedin", Name: "LinkedIn Ads", Objectives: []string{"LEAD_GENERATION", "WEBSITE_VISITS", "ENGAGEMENT", "BRAND_AWARENESS"}},
	{ID: "x-twitter", Name: "X (Twitter) Ads", Objectives: []string{"REACH", "ENGAGEMENTS", "WEBSITE_TRAFFIC", "APP_INSTALLS"}},
	{ID: "snapchat", Name: "Snapchat Ads", Objectives: []string{"AWARENESS", "TRAFFIC", "LEADS", "APP_INSTALLS"}},
	{ID: "pinterest", Name: "Pinterest Ads", Objectives: []string{"BRAND_AWARENESS", "CONSIDERATION", "CONVERSIONS", "CATALOG_SALES"}},
	{ID: "reddit", Name: "Reddit Ads", Objectives: []string{"TRAFFIC", "CONVERSIONS", "BRAND_AWARENESS", "APP_INSTALLS"}},
}

// All returns the supported engines in display order
func All() []Engine {
	out := make([]Engine, len(registry))
	copy(out, registry)
	return out
}

// ByID returns the engine with the given id
func ByID(id string) (Engine, bool) {
	for _, e := range registry {
		if e.ID == id {
			return e, true
		}
	}
	return Engine{}, false
}

// IsKnown reports whether id names a supported engine
func IsKnown(id string) bool {
	_, ok := ByID(id)
	return ok
}

// Objectives returns the objective list for a platform
func Objectives(id string) ([]string, error) {
	e, ok := ByID(id)
	if !ok {
		return nil, fmt.Errorf("unknown engine: %s", id)
	}
	out := make([]string, len(e.Objectives))
	copy(out, e.Objectives)
	return out, nil
}

// DefaultObjective returns the first objective of a platform's list,
// which the wizard pre-selects when the platform is chosen
func DefaultObjective(id string) (string, error) {
	objectives, err := Objectives(id)
	if err != nil {
		return "", err
	}
	return objectives[0], nil
}

// BuiltinSchema returns the static form schema for a known engine.
// This is the fallback used when no custom schema is stored for the
// engine (for example when the schema endpoint has nothing configured).
func BuiltinSchema(id string) (Schema, error) {
	e, ok := ByID(id)
	if !ok {
		return Schema{}, fmt.Errorf("unknown engine: %s", id)
	}

	return Schema{
		Engine: e.ID,
		Kind:   SchemaBuiltin,
		Fields: []Field{
			{Name: "name", Label: "Campaign name", Type: FieldText, Required: true},
			{Name: "objective", Label: "Objective", Type: FieldSelect, Required: true, Options: e.Objectives},
			{Name: "countries", Label: "Target countries", Type: FieldMulti, Required: true},
			{Name: "languages", Label: "Languages", Type: FieldMulti},
			{Name: "age_min", Label: "Minimum age", Type: FieldNumber},
			{Name: "age_max", Label: "Maximum age", Type: FieldNumber},
			{Name: "daily_budget", Label: "Daily budget (USD)", Type: FieldNumber, Required: true},
			{Name: "headline", Label: "Headline", Type: FieldText, Required: true},
			{Name: "primary_text", Label: "Primary text", Type: FieldText},
		},
	}, nil
}
