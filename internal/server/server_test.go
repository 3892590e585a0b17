package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/reachly-dev/reachly/internal/config"
	"github.com/reachly-dev/reachly/internal/models"
	"github.com/reachly-dev/reachly/internal/tasks"
	"github.com/reachly-dev/reachly/internal/workers"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Database: config.DatabaseConfig{URL: filepath.Join(t.TempDir(), "test.sqlite")},
		Redis:    config.RedisConfig{Address: "localhost:6379"},
	}

	srv, err := New(cfg, zerolog.Nop(), "test")
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv
}

// request performs one request against the server's router
func request(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// registerUser registers an account and returns its token
func registerUser(t *testing.T, srv *Server, email string) string {
	t.Helper()

	rec := request(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "testpass123",
		"name":     "Test User",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp LoginResponse
	decode(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("register returned no token")
	}
	return resp.Token
}

func TestFirstUserBecomesAdmin(t *testing.T) {
	srv := newTestServer(t)

	token := registerUser(t, srv, "first@test.com")

	rec := request(t, srv, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me returned %d: %s", rec.Code, rec.Body.String())
	}
	var user UserDetail
	decode(t, rec, &user)
	if user.Role != "admin" {
		t.Errorf("first user role = %q, want admin", user.Role)
	}
	if user.Status != "approved" {
		t.Errorf("first user status = %q, want approved", user.Status)
	}

	// Later registrations are pending regular users
	token2 := registerUser(t, srv, "second@test.com")
	rec = request(t, srv, http.MethodGet, "/api/auth/me", token2, nil)
	decode(t, rec, &user)
	if user.Role != "user" || user.Status != "pending" {
		t.Errorf("second user = %s/%s, want user/pending", user.Role, user.Status)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "dup@test.com")

	rec := request(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "dup@test.com",
		"password": "testpass123",
		"name":     "Other",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register returned %d, want 409", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "login@test.com")

	rec := request(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "login@test.com",
		"password": "testpass123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = request(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "login@test.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login returned %d, want 401", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "any@test.com")

	for _, path := range []string{"/api/campaigns", "/api/auth/me", "/api/wizard/draft"} {
		rec := request(t, srv, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token returned %d, want 401", path, rec.Code)
		}

		rec = request(t, srv, http.MethodGet, path, "garbage-token", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s with garbage token returned %d, want 401", path, rec.Code)
		}
	}
}

func validCampaignBody() map[string]any {
	return map[string]any{
		"name":      "Test campaign",
		"platform":  "meta-facebook",
		"objective": "CONVERSIONS",
		"targeting": map[string]any{
			"countries": []string{"United States"},
			"age_min":   21,
			"age_max":   55,
		},
		"budget":   map[string]any{"daily": 40},
		"creative": map[string]any{"headline": "Try it"},
	}
}

func TestCreateCampaign(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "creator@test.com")

	rec := request(t, srv, http.MethodPost, "/api/campaigns", token, validCampaignBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}

	var campaign CampaignDetail
	decode(t, rec, &campaign)
	if campaign.ID == "" {
		t.Error("created campaign has no id")
	}
	if campaign.Status != "draft" {
		t.Errorf("status = %q, want draft", campaign.Status)
	}
	if campaign.DailyBudget != 40 {
		t.Errorf("daily budget = %v, want 40", campaign.DailyBudget)
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "validator@test.com")

	tests := []struct {
		name   string
		mutate func(body map[string]any)
	}{
		{"unknown platform", func(b map[string]any) { b["platform"] = "myspace" }},
		{"objective from another platform", func(b map[string]any) { b["objective"] = "SALES" }},
		{"no countries", func(b map[string]any) {
			b["targeting"] = map[string]any{"countries": []string{}}
		}},
		{"zero budget", func(b map[string]any) {
			b["budget"] = map[string]any{"daily": 0}
		}},
		{"missing headline", func(b map[string]any) {
			b["creative"] = map[string]any{"headline": ""}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validCampaignBody()
			tt.mutate(body)
			rec := request(t, srv, http.MethodPost, "/api/campaigns", token, body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("returned %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCampaignOwnership(t *testing.T) {
	srv := newTestServer(t)
	// First user is the admin; use two regular users
	registerUser(t, srv, "admin@test.com")
	owner := registerUser(t, srv, "owner@test.com")
	other := registerUser(t, srv, "other@test.com")

	rec := request(t, srv, http.MethodPost, "/api/campaigns", owner, validCampaignBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	var campaign CampaignDetail
	decode(t, rec, &campaign)

	// The other user cannot see it, and the miss reads as not-found
	rec = request(t, srv, http.MethodGet, "/api/campaigns/"+campaign.ID, other, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign get returned %d, want 404", rec.Code)
	}

	// The owner can
	rec = request(t, srv, http.MethodGet, "/api/campaigns/"+campaign.ID, owner, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("owner get returned %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWizardDraftRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "drafter@test.com")

	// No draft yet
	rec := request(t, srv, http.MethodGet, "/api/wizard/draft", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("empty draft get returned %d, want 404", rec.Code)
	}

	// Save and read back
	rec = request(t, srv, http.MethodPut, "/api/wizard/draft", token, map[string]any{
		"step": 2,
		"form": map[string]any{"platform": "tiktok", "objective": "TRAFFIC"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("draft put returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = request(t, srv, http.MethodGet, "/api/wizard/draft", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("draft get returned %d: %s", rec.Code, rec.Body.String())
	}
	var draft DraftResponse
	decode(t, rec, &draft)
	if draft.Step != 2 {
		t.Errorf("step = %d, want 2", draft.Step)
	}

	// Overwrite advances the same row
	rec = request(t, srv, http.MethodPut, "/api/wizard/draft", token, map[string]any{
		"step": 3,
		"form": map[string]any{"platform": "tiktok", "objective": "TRAFFIC", "daily_budget": 25},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("draft overwrite returned %d: %s", rec.Code, rec.Body.String())
	}
	rec = request(t, srv, http.MethodGet, "/api/wizard/draft", token, nil)
	decode(t, rec, &draft)
	if draft.Step != 3 {
		t.Errorf("step after overwrite = %d, want 3", draft.Step)
	}

	// Delete
	rec = request(t, srv, http.MethodDelete, "/api/wizard/draft", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("draft delete returned %d", rec.Code)
	}
	rec = request(t, srv, http.MethodGet, "/api/wizard/draft", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("draft get after delete returned %d, want 404", rec.Code)
	}
}

func TestLandingLeadCaptureIsPublic(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "someone@test.com")

	rec := request(t, srv, http.MethodPost, "/api/leads/landing", "", map[string]any{
		"email": "prospect@bigco.com",
		"name":  "Pat Prospect",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("lead capture returned %d: %s", rec.Code, rec.Body.String())
	}

	var lead struct {
		ID string `json:"id"`
	}
	decode(t, rec, &lead)
	if lead.ID == "" {
		t.Error("captured lead has no id")
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	srv := newTestServer(t)
	admin := registerUser(t, srv, "root@test.com")
	regular := registerUser(t, srv, "pleb@test.com")

	rec := request(t, srv, http.MethodGet, "/api/users", regular, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin user list returned %d, want 403", rec.Code)
	}

	rec = request(t, srv, http.MethodGet, "/api/users", admin, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("admin user list returned %d: %s", rec.Code, rec.Body.String())
	}
}

func TestEngineEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "engines@test.com")

	rec := request(t, srv, http.MethodGet, "/api/ai/engines", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("engines list returned %d", rec.Code)
	}
	var list []struct {
		ID         string   `json:"id"`
		Objectives []string `json:"objectives"`
	}
	decode(t, rec, &list)
	if len(list) == 0 {
		t.Fatal("no engines returned")
	}

	rec = request(t, srv, http.MethodGet, "/api/ai/engines/"+list[0].ID+"/schema", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("schema returned %d: %s", rec.Code, rec.Body.String())
	}
	var schema struct {
		Kind string `json:"kind"`
	}
	decode(t, rec, &schema)
	if schema.Kind != "builtin" {
		t.Errorf("kind = %q, want builtin (no custom schema stored)", schema.Kind)
	}

	rec = request(t, srv, http.MethodGet, "/api/ai/engines/myspace/schema", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown engine schema returned %d, want 404", rec.Code)
	}
}

func TestTargetingEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "targeting@test.com")

	rec := request(t, srv, http.MethodGet, "/api/targeting/countries", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("countries returned %d", rec.Code)
	}
	var countries []string
	decode(t, rec, &countries)
	if len(countries) == 0 {
		t.Error("no countries returned")
	}

	rec = request(t, srv, http.MethodGet, "/api/targeting/states?country=United+States", token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("states returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = request(t, srv, http.MethodGet, "/api/targeting/states", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("states without country returned %d, want 400", rec.Code)
	}
}

func TestIntegrationOAuthFlowConnectsAndLaunches(t *testing.T) {
	srv := newTestServer(t)
	// First registration is auto-approved, so launch is permitted
	token := registerUser(t, srv, "connector@test.com")

	rec := request(t, srv, http.MethodPost, "/api/integrations/meta-facebook/connect", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("connect returned %d: %s", rec.Code, rec.Body.String())
	}
	var connectResp struct {
		Integration models.Integration `json:"integration"`
		AuthURL     string             `json:"auth_url"`
	}
	decode(t, rec, &connectResp)
	if connectResp.Integration.Status != models.IntegrationPending {
		t.Fatalf("integration status = %q, want pending", connectResp.Integration.Status)
	}
	if connectResp.AuthURL == "" {
		t.Fatal("connect returned no auth_url")
	}

	// The browser follows auth_url without a bearer token
	rec = request(t, srv, http.MethodGet, connectResp.AuthURL, "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("oauth start returned %d: %s", rec.Code, rec.Body.String())
	}
	callback := rec.Header().Get("Location")
	if callback == "" {
		t.Fatal("oauth start returned no redirect location")
	}

	rec = request(t, srv, http.MethodGet, callback, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("oauth callback returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = request(t, srv, http.MethodGet, "/api/integrations", token, nil)
	var integrations []models.Integration
	decode(t, rec, &integrations)
	if len(integrations) != 1 {
		t.Fatalf("got %d integrations, want 1", len(integrations))
	}
	if integrations[0].Status != models.IntegrationConnected {
		t.Errorf("status = %q, want connected", integrations[0].Status)
	}
	if integrations[0].ConnectedAt == nil {
		t.Error("ConnectedAt not recorded")
	}
	if integrations[0].AccountRef == "" {
		t.Error("AccountRef not recorded")
	}

	// Replaying the consumed state must not work
	rec = request(t, srv, http.MethodGet, callback, "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("replayed callback returned %d, want 400", rec.Code)
	}

	// Launch the campaign. The endpoint records the launching state before
	// handing off to the queue; the worker handler then drives it active.
	rec = request(t, srv, http.MethodPost, "/api/campaigns", token, validCampaignBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	var campaign CampaignDetail
	decode(t, rec, &campaign)

	request(t, srv, http.MethodPost, "/api/campaigns/"+campaign.ID+"/launch", token, nil)

	var stored models.Campaign
	if err := srv.db.First(&stored, "id = ?", campaign.ID).Error; err != nil {
		t.Fatalf("failed to reload campaign: %v", err)
	}
	if stored.Status != models.CampaignLaunching {
		t.Fatalf("status after launch = %q, want launching", stored.Status)
	}

	task, err := tasks.NewLaunchCampaignTask(campaign.ID)
	if err != nil {
		t.Fatalf("failed to build task: %v", err)
	}
	if err := workers.HandleLaunchCampaign(context.Background(), task, srv.db, zerolog.Nop()); err != nil {
		t.Fatalf("HandleLaunchCampaign: %v", err)
	}

	if err := srv.db.First(&stored, "id = ?", campaign.ID).Error; err != nil {
		t.Fatalf("failed to reload campaign: %v", err)
	}
	if stored.Status != models.CampaignActive {
		t.Errorf("status = %q, want active", stored.Status)
	}
	if stored.LaunchedAt == nil {
		t.Error("LaunchedAt not recorded")
	}
}
