package wizard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reachly-dev/reachly/internal/apiclient"
)

// advance fills the wizard to the review step with a valid campaign
func advanceToReview(t *testing.T) *Wizard {
	t.Helper()

	w := New()
	if err := w.SelectPlatform("meta-facebook"); err != nil {
		t.Fatalf("SelectPlatform: %v", err)
	}
	w.SetName("Spring promo")
	mustNext(t, w) // -> objective
	mustNext(t, w) // -> targeting (default objective already seeded)
	w.SetCountries([]string{"United States", "Canada"})
	w.SetLanguages([]string{"English"})
	w.SetAgeRange("25", "45")
	mustNext(t, w) // -> budget
	w.SetDailyBudget("50")
	w.SetCreative("Try Reachly today", "The fastest way to launch ads.")
	mustNext(t, w) // -> review

	if w.Step() != StepReview {
		t.Fatalf("Step = %v, want %v", w.Step(), StepReview)
	}
	return w
}

func mustNext(t *testing.T, w *Wizard) {
	t.Helper()
	if err := w.Next(); err != nil {
		t.Fatalf("Next from %v: %v", w.Step(), err)
	}
}

func TestNextBlockedWithoutRequiredFields(t *testing.T) {
	w := New()

	// No platform selected
	if err := w.Next(); err == nil {
		t.Error("Next advanced past platform step without a selection")
	}
	if w.Step() != StepPlatform {
		t.Errorf("Step = %v, want %v", w.Step(), StepPlatform)
	}

	if err := w.SelectPlatform("google-ads"); err != nil {
		t.Fatalf("SelectPlatform: %v", err)
	}
	mustNext(t, w)
	mustNext(t, w) // objective is seeded, so this passes

	// No countries yet
	if err := w.Next(); err == nil {
		t.Error("Next advanced past targeting step without countries")
	}
	if w.Step() != StepTargeting {
		t.Errorf("Step = %v, want %v", w.Step(), StepTargeting)
	}

	w.SetCountries([]string{"Germany"})
	mustNext(t, w)

	// Budget unset
	if err := w.Next(); err == nil {
		t.Error("Next advanced past budget step with zero budget")
	}
	w.SetDailyBudget("25")
	if err := w.Next(); err == nil {
		t.Error("Next advanced past budget step without a headline")
	}
	w.SetCreative("Headline", "")
	mustNext(t, w)

	if w.Step() != StepReview {
		t.Errorf("Step = %v, want %v", w.Step(), StepReview)
	}
}

func TestSelectPlatformSeedsDefaultObjective(t *testing.T) {
	w := New()
	if err := w.SelectPlatform("meta-facebook"); err != nil {
		t.Fatalf("SelectPlatform: %v", err)
	}
	if got := w.Form().Objective; got != "CONVERSIONS" {
		t.Errorf("Objective = %q, want %q", got, "CONVERSIONS")
	}

	if err := w.SelectPlatform("linkedin"); err != nil {
		t.Fatalf("SelectPlatform: %v", err)
	}
	if got := w.Form().Objective; got != "LEAD_GENERATION" {
		t.Errorf("Objective after switching = %q, want %q", got, "LEAD_GENERATION")
	}
}

func TestSelectUnknownPlatform(t *testing.T) {
	w := New()
	if err := w.SelectPlatform("myspace"); err == nil {
		t.Error("SelectPlatform accepted an unknown platform")
	}
	if w.Form().Platform != "" {
		t.Error("failed selection mutated the form")
	}
}

func TestSetObjectiveRejectsForeignObjective(t *testing.T) {
	w := New()
	if err := w.SelectPlatform("google-ads"); err != nil {
		t.Fatalf("SelectPlatform: %v", err)
	}
	// CONVERSIONS belongs to meta-facebook, not google-ads
	if err := w.SetObjective("CONVERSIONS"); err == nil {
		t.Error("SetObjective accepted an objective from another platform")
	}
	if err := w.SetObjective("SALES"); err != nil {
		t.Errorf("SetObjective rejected a valid objective: %v", err)
	}
}

func TestBackFromObjectiveResetsPlatform(t *testing.T) {
	w := New()
	if err := w.SelectPlatform("tiktok"); err != nil {
		t.Fatalf("SelectPlatform: %v", err)
	}
	mustNext(t, w)

	if err := w.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	if w.Step() != StepPlatform {
		t.Errorf("Step = %v, want %v", w.Step(), StepPlatform)
	}
	form := w.Form()
	if form.Platform != "" || form.Objective != "" {
		t.Errorf("platform-dependent fields survived Back: platform=%q objective=%q",
			form.Platform, form.Objective)
	}
}

func TestBackPreservesLaterFields(t *testing.T) {
	w := advanceToReview(t)
	if err := w.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}

	form := w.Form()
	if form.DailyBudget != 50 {
		t.Errorf("DailyBudget = %v, want 50", form.DailyBudget)
	}
	if len(form.Countries) != 2 {
		t.Errorf("Countries = %v, want 2 entries", form.Countries)
	}
}

func TestBackAtFirstStep(t *testing.T) {
	w := New()
	if err := w.Back(); err == nil {
		t.Error("Back succeeded at the first step")
	}
}

func TestDefensiveAgeParsing(t *testing.T) {
	tests := []struct {
		name    string
		min     string
		max     string
		wantMin int
		wantMax int
	}{
		{"both valid", "21", "40", 21, 40},
		{"garbage min", "abc", "40", 18, 40},
		{"garbage max", "21", "", 21, 65},
		{"both garbage", "x", "y", 18, 65},
		{"max below min clamps up", "40", "30", 40, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			w.SetAgeRange(tt.min, tt.max)
			form := w.Form()
			if form.AgeMin != tt.wantMin || form.AgeMax != tt.wantMax {
				t.Errorf("age range = %d-%d, want %d-%d",
					form.AgeMin, form.AgeMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestDefensiveBudgetParsing(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"50", 50},
		{" 12.50 ", 12.5},
		{"abc", 0},
		{"-5", 0},
		{"", 0},
	}

	for _, tt := range tests {
		w := New()
		w.SetDailyBudget(tt.input)
		if got := w.Form().DailyBudget; got != tt.want {
			t.Errorf("SetDailyBudget(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSubmitPayloadShape(t *testing.T) {
	var body []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"01J5XYZCAMPAIGN"}`))
	}))
	defer ts.Close()

	w := advanceToReview(t)
	id, err := w.Submit(apiclient.New(ts.URL, nil))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id != "01J5XYZCAMPAIGN" {
		t.Errorf("id = %q, want %q", id, "01J5XYZCAMPAIGN")
	}
	if w.Step() != StepSubmitted {
		t.Errorf("Step = %v, want %v", w.Step(), StepSubmitted)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload["platform"] != "meta-facebook" {
		t.Errorf("platform = %v", payload["platform"])
	}
	if payload["objective"] != "CONVERSIONS" {
		t.Errorf("objective = %v", payload["objective"])
	}

	targeting, ok := payload["targeting"].(map[string]any)
	if !ok {
		t.Fatal("targeting is not a nested object")
	}
	countries, ok := targeting["countries"].([]any)
	if !ok || len(countries) != 2 {
		t.Errorf("targeting.countries = %v, want 2 entries", targeting["countries"])
	}

	budget, ok := payload["budget"].(map[string]any)
	if !ok {
		t.Fatal("budget is not a nested object")
	}
	if budget["daily"] != 50.0 {
		t.Errorf("budget.daily = %v, want 50", budget["daily"])
	}

	creative, ok := payload["creative"].(map[string]any)
	if !ok {
		t.Fatal("creative is not a nested object")
	}
	if creative["headline"] != "Try Reachly today" {
		t.Errorf("creative.headline = %v", creative["headline"])
	}
}

func TestSubmitFormatsNumericID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42}`))
	}))
	defer ts.Close()

	w := advanceToReview(t)
	id, err := w.Submit(apiclient.New(ts.URL, nil))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id != "42" {
		t.Errorf("id = %q, want %q", id, "42")
	}
}

func TestSubmitResponseMissingID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"name":"no id here"}`))
	}))
	defer ts.Close()

	w := advanceToReview(t)
	_, err := w.Submit(apiclient.New(ts.URL, nil))
	if err == nil {
		t.Fatal("Submit succeeded on a response without a campaign id")
	}
	if got, want := err.Error(), "response missing campaign id"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
	if w.Step() != StepReview {
		t.Errorf("Step = %v, want %v (stay on review)", w.Step(), StepReview)
	}
}

func TestSubmitFailureKeepsState(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"budget too low"}`))
	}))
	defer ts.Close()

	w := advanceToReview(t)
	before := w.Form()

	_, err := w.Submit(apiclient.New(ts.URL, nil))
	if err == nil {
		t.Fatal("Submit succeeded against a failing backend")
	}
	if err.Error() != "budget too low" {
		t.Errorf("error = %q, want %q", err.Error(), "budget too low")
	}
	if w.Step() != StepReview {
		t.Errorf("Step = %v, want %v (stay on review after failure)", w.Step(), StepReview)
	}
	if w.LastError() != "budget too low" {
		t.Errorf("LastError = %q, want %q", w.LastError(), "budget too low")
	}

	after := w.Form()
	if after.Platform != before.Platform || after.DailyBudget != before.DailyBudget ||
		len(after.Countries) != len(before.Countries) || after.Headline != before.Headline {
		t.Error("form state changed after a failed submit")
	}

	// Retry against a working backend succeeds with the same state
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"01J5RETRY"}`))
	}))
	defer ok.Close()

	id, err := w.Submit(apiclient.New(ok.URL, nil))
	if err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if id != "01J5RETRY" {
		t.Errorf("id = %q, want %q", id, "01J5RETRY")
	}
}

func TestSubmitOnlyFromReview(t *testing.T) {
	w := New()
	if _, err := w.Submit(nil); err == nil {
		t.Error("Submit succeeded before reaching the review step")
	}
}

func TestRestoreClampsStep(t *testing.T) {
	w := Restore(Step(99), Form{Platform: "reddit", Objective: "TRAFFIC"})
	if w.Step() != StepPlatform {
		t.Errorf("Step = %v, want %v", w.Step(), StepPlatform)
	}

	w = Restore(StepBudget, Form{})
	form := w.Form()
	if form.AgeMin != 18 || form.AgeMax != 65 {
		t.Errorf("restored defaults = %d-%d, want 18-65", form.AgeMin, form.AgeMax)
	}
}
