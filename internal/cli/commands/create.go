package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/reachly-dev/reachly/internal/apiclient"
	"github.com/reachly-dev/reachly/internal/cli/session"
	"github.com/reachly-dev/reachly/internal/engines"
	"github.com/reachly-dev/reachly/internal/targeting"
	"github.com/reachly-dev/reachly/internal/wizard"
)

// errDraftSaved signals a deliberate save-and-exit from the review step
var errDraftSaved = errors.New("draft saved")

// draftPayload is the serialized wizard state persisted server-side
// after every step transition, so an interrupted session can resume
type draftPayload struct {
	Step int         `json:"step"`
	Form wizard.Form `json:"form"`
}

// NewCreateCmd creates the campaign creation wizard command
func NewCreateCmd() *cobra.Command {
	var resume bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a campaign through the step-by-step wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(session.Default, resume)
		},
	}

	cmd.Flags().BoolVar(&resume, "resume", false, "Resume the saved draft instead of starting over")

	return cmd
}

func runCreate(store session.Store, resume bool) error {
	if _, err := requireLogin(store); err != nil {
		return err
	}

	client := newAPIClient(store)

	w := wizard.New()
	if resume {
		restored, err := loadDraft(client)
		if err != nil {
			return err
		}
		if restored != nil {
			w = restored
			fmt.Printf("Resuming draft at step: %s\n\n", w.Step())
		} else {
			fmt.Println("No saved draft found, starting a new campaign.")
		}
	}

	for w.Step() != wizard.StepSubmitted {
		var err error
		switch w.Step() {
		case wizard.StepPlatform:
			err = stepPlatform(w)
		case wizard.StepObjective:
			err = stepObjective(w)
		case wizard.StepTargeting:
			err = stepTargeting(client, w)
		case wizard.StepBudget:
			err = stepBudget(w)
		case wizard.StepReview:
			done, reviewErr := stepReview(client, w)
			if reviewErr != nil {
				if errors.Is(reviewErr, errDraftSaved) {
					return nil
				}
				return reviewErr
			}
			if done {
				// Draft is no longer needed once the campaign exists
				_, _ = client.Delete("/api/wizard/draft", nil)
				fmt.Printf("\n✓ Campaign created: %s\n", w.CampaignID())
				fmt.Printf("  View it in the dashboard: /campaigns/%s\n", w.CampaignID())
				return nil
			}
			continue
		}
		if err != nil {
			return err
		}

		saveDraft(client, w)
	}

	return nil
}

// stepPlatform runs the platform selection step
func stepPlatform(w *wizard.Wizard) error {
	all := engines.All()
	labels := make([]string, len(all))
	for i, e := range all {
		labels[i] = e.Name
	}

	prompt := promptui.Select{
		Label: "Select an advertising platform",
		Items: labels,
		Size:  len(labels),
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return err
	}

	if err := w.SelectPlatform(all[idx].ID); err != nil {
		return err
	}

	name, err := textPrompt("Campaign name", w.Form().Name)
	if err != nil {
		return err
	}
	w.SetName(name)

	return w.Next()
}

// stepObjective runs the objective selection step. Choices are seeded
// from the selected platform; going back clears the platform choice.
func stepObjective(w *wizard.Wizard) error {
	const backLabel = "← Change platform"

	choices := append([]string{}, w.ObjectiveChoices()...)
	items := append(choices, backLabel)

	prompt := promptui.Select{
		Label: "Campaign objective",
		Items: items,
		Size:  len(items),
	}
	idx, choice, err := prompt.Run()
	if err != nil {
		return err
	}

	if choice == backLabel || idx == len(choices) {
		return w.Back()
	}

	if err := w.SetObjective(choice); err != nil {
		return err
	}
	return w.Next()
}

// stepTargeting collects countries, languages and the age range.
// Countries come from the API, falling back to the built-in list when
// the lookup endpoint is unreachable.
func stepTargeting(client *apiclient.Client, w *wizard.Wizard) error {
	countries := fetchLookup(client, "/api/targeting/countries")
	if len(countries) == 0 {
		countries, _ = targeting.Countries()
	}

	fmt.Printf("Available countries: %s\n", strings.Join(countries, ", "))
	input, err := textPrompt("Target countries (comma-separated)", strings.Join(w.Form().Countries, ", "))
	if err != nil {
		return err
	}
	w.SetCountries(splitList(input))

	langInput, err := textPrompt("Languages (comma-separated, optional)", strings.Join(w.Form().Languages, ", "))
	if err != nil {
		return err
	}
	w.SetLanguages(splitList(langInput))

	minAge, err := textPrompt("Minimum age", fmt.Sprintf("%d", w.Form().AgeMin))
	if err != nil {
		return err
	}
	maxAge, err := textPrompt("Maximum age", fmt.Sprintf("%d", w.Form().AgeMax))
	if err != nil {
		return err
	}
	w.SetAgeRange(minAge, maxAge)

	if err := w.Next(); err != nil {
		fmt.Println(err)
		return stepTargeting(client, w)
	}
	return nil
}

// stepBudget collects the daily budget and ad creative
func stepBudget(w *wizard.Wizard) error {
	budget, err := textPrompt("Daily budget (USD)", "")
	if err != nil {
		return err
	}
	w.SetDailyBudget(budget)

	headline, err := textPrompt("Headline", w.Form().Headline)
	if err != nil {
		return err
	}
	primary, err := textPrompt("Primary text (optional)", w.Form().PrimaryText)
	if err != nil {
		return err
	}
	w.SetCreative(headline, primary)

	if err := w.Next(); err != nil {
		fmt.Println(err)
		return stepBudget(w)
	}
	return nil
}

// stepReview shows the read-only summary and offers submit / back /
// save-and-exit. Returns true once the campaign has been created.
func stepReview(client *apiclient.Client, w *wizard.Wizard) (bool, error) {
	fmt.Println("\nReview your campaign:")
	for _, line := range w.Summary() {
		fmt.Printf("  %s\n", line)
	}

	prompt := promptui.Select{
		Label: "Ready to submit?",
		Items: []string{"Submit campaign", "Go back", "Save draft and exit"},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return false, err
	}

	switch idx {
	case 0:
		if _, err := w.Submit(client); err != nil {
			// The wizard stays on review with all fields intact, so the
			// user can fix the problem and retry without re-entering data
			fmt.Printf("Submission failed: %s\n", err)
			return false, nil
		}
		return true, nil
	case 1:
		if err := w.Back(); err != nil {
			return false, err
		}
		saveDraft(client, w)
		return false, nil
	default:
		saveDraft(client, w)
		fmt.Println("Draft saved. Resume with: reachly create --resume")
		return false, errDraftSaved
	}
}

// saveDraft persists the wizard state server-side; failures are logged
// but never interrupt the flow
func saveDraft(client *apiclient.Client, w *wizard.Wizard) {
	payload := draftPayload{Step: int(w.Step()), Form: w.Form()}
	if _, err := client.Put("/api/wizard/draft", payload, nil); err != nil {
		fmt.Printf("Warning: failed to save draft: %v\n", err)
	}
}

// loadDraft fetches the saved wizard state, returning nil when no draft exists
func loadDraft(client *apiclient.Client) (*wizard.Wizard, error) {
	raw, err := client.Get("/api/wizard/draft", nil)
	if err != nil {
		if apiErr, ok := apiclient.AsError(err); ok && apiErr.Status == 404 {
			return nil, nil
		}
		return nil, err
	}

	var draft draftPayload
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return wizard.Restore(wizard.Step(draft.Step), draft.Form), nil
}

// fetchLookup retrieves a string-list lookup endpoint, returning nil on
// any failure so callers can fall back
func fetchLookup(client *apiclient.Client, path string) []string {
	raw, err := client.Get(path, nil)
	if err != nil {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}

func textPrompt(label, defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
	}
	return prompt.Run()
}

func splitList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
