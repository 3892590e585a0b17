// Package wizard implements the multi-step campaign creation flow: a
// linear state machine that accumulates form state across steps and
// submits one composed payload at the end.
package wizard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/reachly-dev/reachly/internal/apiclient"
	"github.com/reachly-dev/reachly/internal/engines"
)

// Step identifies one stage of the campaign creation flow
type Step int

const (
	StepPlatform Step = iota
	StepObjective
	StepTargeting
	StepBudget
	StepReview
	// StepSubmitted is terminal; the wizard holds the created campaign id
	StepSubmitted
)

// String returns the display name of a step
func (s Step) String() string {
	switch s {
	case StepPlatform:
		return "Platform"
	case StepObjective:
		return "Objective"
	case StepTargeting:
		return "Targeting"
	case StepBudget:
		return "Budget & Creative"
	case StepReview:
		return "Review"
	case StepSubmitted:
		return "Submitted"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Defaults applied when numeric input does not parse
const (
	defaultAgeMin = 18
	defaultAgeMax = 65
)

// Form holds the accumulated wizard state. It is serializable so drafts
// can be persisted server-side between sessions.
type Form struct {
	Name        string   `json:"name"`
	Platform    string   `json:"platform"`
	Objective   string   `json:"objective"`
	Countries   []string `json:"countries"`
	Languages   []string `json:"languages"`
	AgeMin      int      `json:"age_min"`
	AgeMax      int      `json:"age_max"`
	DailyBudget float64  `json:"daily_budget"`
	Headline    string   `json:"headline"`
	PrimaryText string   `json:"primary_text"`
}

// Poster is the slice of the API client the wizard needs for submission
type Poster interface {
	Post(path string, body any, opts *apiclient.RequestOptions) (json.RawMessage, error)
}

// Wizard walks a user through campaign creation. All step transitions
// mutate only local state; the single network call happens at Submit.
type Wizard struct {
	step       Step
	form       Form
	campaignID string
	lastError  string
}

// New creates a wizard at the platform selection step
func New() *Wizard {
	return &Wizard{
		step: StepPlatform,
		form: Form{AgeMin: defaultAgeMin, AgeMax: defaultAgeMax},
	}
}

// Restore rebuilds a wizard from a persisted draft. An out-of-range step
// falls back to the first step rather than failing.
func Restore(step Step, form Form) *Wizard {
	if step < StepPlatform || step > StepReview {
		step = StepPlatform
	}
	if form.AgeMin == 0 {
		form.AgeMin = defaultAgeMin
	}
	if form.AgeMax == 0 {
		form.AgeMax = defaultAgeMax
	}
	return &Wizard{step: step, form: form}
}

// Step returns the current step
func (w *Wizard) Step() Step { return w.step }

// Form returns a copy of the accumulated form state
func (w *Wizard) Form() Form {
	form := w.form
	form.Countries = append([]string(nil), w.form.Countries...)
	form.Languages = append([]string(nil), w.form.Languages...)
	return form
}

// CampaignID returns the created campaign's id after a successful submit
func (w *Wizard) CampaignID() string { return w.campaignID }

// LastError returns the message of the most recent failed submit
func (w *Wizard) LastError() string { return w.lastError }

// SetName sets the campaign name
func (w *Wizard) SetName(name string) {
	w.form.Name = strings.TrimSpace(name)
}

// SelectPlatform chooses the advertising platform. Objective choices are
// platform-specific, so selecting a platform seeds the objective with the
// first entry of that platform's objective list.
func (w *Wizard) SelectPlatform(id string) error {
	objective, err := engines.DefaultObjective(id)
	if err != nil {
		return err
	}
	w.form.Platform = id
	w.form.Objective = objective
	return nil
}

// ObjectiveChoices returns the objectives available for the selected
// platform, or nil when no platform is selected
func (w *Wizard) ObjectiveChoices() []string {
	if w.form.Platform == "" {
		return nil
	}
	objectives, err := engines.Objectives(w.form.Platform)
	if err != nil {
		return nil
	}
	return objectives
}

// SetObjective picks an objective from the selected platform's list
func (w *Wizard) SetObjective(objective string) error {
	if w.form.Platform == "" {
		return fmt.Errorf("select a platform first")
	}
	for _, o := range w.ObjectiveChoices() {
		if o == objective {
			w.form.Objective = objective
			return nil
		}
	}
	return fmt.Errorf("objective %q is not available on %s", objective, w.form.Platform)
}

// SetCountries replaces the target country list
func (w *Wizard) SetCountries(countries []string) {
	w.form.Countries = append([]string(nil), countries...)
}

// AddCountry appends a target country, ignoring duplicates
func (w *Wizard) AddCountry(country string) {
	for _, c := range w.form.Countries {
		if c == country {
			return
		}
	}
	w.form.Countries = append(w.form.Countries, country)
}

// SetLanguages replaces the targeting language list
func (w *Wizard) SetLanguages(languages []string) {
	w.form.Languages = append([]string(nil), languages...)
}

// SetAgeRange parses the age bounds defensively: non-numeric input falls
// back to the defaults instead of propagating garbage
func (w *Wizard) SetAgeRange(minInput, maxInput string) {
	w.form.AgeMin = parseIntOr(minInput, defaultAgeMin)
	w.form.AgeMax = parseIntOr(maxInput, defaultAgeMax)
	if w.form.AgeMax < w.form.AgeMin {
		w.form.AgeMax = w.form.AgeMin
	}
}

// parseIntOr parses input as an int, returning fallback when the trimmed
// input does not parse
func parseIntOr(input string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fallback
	}
	return value
}

// SetDailyBudget parses the daily budget; non-numeric input becomes 0,
// which then fails the budget step's validation gate
func (w *Wizard) SetDailyBudget(input string) {
	value, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || value < 0 {
		value = 0
	}
	w.form.DailyBudget = value
}

// SetCreative sets the ad creative fields
func (w *Wizard) SetCreative(headline, primaryText string) {
	w.form.Headline = strings.TrimSpace(headline)
	w.form.PrimaryText = strings.TrimSpace(primaryText)
}

// Next advances to the following step, but only if the current step's
// required fields are populated. On a validation failure the wizard stays
// where it is and the error carries the message to surface.
func (w *Wizard) Next() error {
	if w.step >= StepReview {
		return fmt.Errorf("no further steps")
	}
	if err := w.validate(w.step); err != nil {
		return err
	}
	w.step++
	return nil
}

// Back moves to the previous step. Moving back from the objective step
// resets the platform-dependent fields, since objective choices would
// otherwise reference a platform that no longer applies.
func (w *Wizard) Back() error {
	if w.step == StepPlatform {
		return fmt.Errorf("already at the first step")
	}
	if w.step == StepSubmitted {
		return fmt.Errorf("campaign already submitted")
	}
	if w.step == StepObjective {
		w.form.Platform = ""
		w.form.Objective = ""
	}
	w.step--
	return nil
}

// validate checks the required fields of one step
func (w *Wizard) validate(step Step) error {
	switch step {
	case StepPlatform:
		if w.form.Platform == "" {
			return fmt.Errorf("select a platform to continue")
		}
	case StepObjective:
		if w.form.Objective == "" {
			return fmt.Errorf("choose a campaign objective to continue")
		}
	case StepTargeting:
		if len(w.form.Countries) == 0 {
			return fmt.Errorf("add at least one target country")
		}
	case StepBudget:
		if w.form.DailyBudget <= 0 {
			return fmt.Errorf("daily budget must be greater than zero")
		}
		if w.form.Headline == "" {
			return fmt.Errorf("a headline is required")
		}
	}
	return nil
}

// Summary returns the read-only review of all accumulated fields shown
// before submission
func (w *Wizard) Summary() []string {
	form := w.form
	name := form.Name
	if name == "" {
		name = "(unnamed campaign)"
	}
	return []string{
		fmt.Sprintf("Name: %s", name),
		fmt.Sprintf("Platform: %s", form.Platform),
		fmt.Sprintf("Objective: %s", form.Objective),
		fmt.Sprintf("Countries: %s", strings.Join(form.Countries, ", ")),
		fmt.Sprintf("Languages: %s", strings.Join(form.Languages, ", ")),
		fmt.Sprintf("Age range: %d-%d", form.AgeMin, form.AgeMax),
		fmt.Sprintf("Daily budget: $%.2f", form.DailyBudget),
		fmt.Sprintf("Headline: %s", form.Headline),
	}
}

type submitTargeting struct {
	Countries []string `json:"countries"`
	Languages []string `json:"languages,omitempty"`
	AgeMin    int      `json:"age_min"`
	AgeMax    int      `json:"age_max"`
}

type submitBudget struct {
	Daily float64 `json:"daily"`
}

type submitCreative struct {
	Headline    string `json:"headline"`
	PrimaryText string `json:"primary_text,omitempty"`
}

type submitPayload struct {
	Name      string          `json:"name"`
	Platform  string          `json:"platform"`
	Objective string          `json:"objective"`
	Targeting submitTargeting `json:"targeting"`
	Budget    submitBudget    `json:"budget"`
	Creative  submitCreative  `json:"creative"`
}

// Submit composes the accumulated form into a single payload and posts it
// to the campaign creation endpoint. On success the wizard enters the
// terminal submitted state and returns the created campaign's id. On
// failure it stays on the review step with all form state intact so the
// user can retry without re-entering data.
func (w *Wizard) Submit(api Poster) (string, error) {
	if w.step != StepReview {
		return "", fmt.Errorf("submit is only available from the review step")
	}

	payload := submitPayload{
		Name:      w.form.Name,
		Platform:  w.form.Platform,
		Objective: w.form.Objective,
		Targeting: submitTargeting{
			Countries: w.form.Countries,
			Languages: w.form.Languages,
			AgeMin:    w.form.AgeMin,
			AgeMax:    w.form.AgeMax,
		},
		Budget:   submitBudget{Daily: w.form.DailyBudget},
		Creative: submitCreative{Headline: w.form.Headline, PrimaryText: w.form.PrimaryText},
	}

	raw, err := api.Post("/api/campaigns", payload, nil)
	if err != nil {
		w.lastError = err.Error()
		return "", err
	}

	var created struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		w.lastError = "campaign was created but the response could not be read"
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if created.ID == nil {
		w.lastError = "campaign was created but the response could not be read"
		return "", fmt.Errorf("response missing campaign id")
	}

	w.campaignID = formatID(created.ID)
	w.lastError = ""
	w.step = StepSubmitted
	return w.campaignID, nil
}

// formatID renders a returned id regardless of whether the backend sent
// it as a string or a number
func formatID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
