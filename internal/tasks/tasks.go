package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TypeScoreLead      = "lead:score"
	TypeLaunchCampaign = "campaign:launch"
	TypeRefreshMetrics = "metrics:refresh"
)

// LeadPayload carries the lead to score
type LeadPayload struct {
	LeadID string `json:"lead_id"`
}

// CampaignPayload carries the campaign to launch
type CampaignPayload struct {
	CampaignID string `json:"campaign_id"`
}

// NewScoreLeadTask creates a task to score a captured lead
func NewScoreLeadTask(leadID string) (*asynq.Task, error) {
	payload, err := json.Marshal(LeadPayload{LeadID: leadID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeScoreLead, payload), nil
}

// NewLaunchCampaignTask creates a task to launch a composed campaign
func NewLaunchCampaignTask(campaignID string) (*asynq.Task, error) {
	payload, err := json.Marshal(CampaignPayload{CampaignID: campaignID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeLaunchCampaign, payload), nil
}

// NewRefreshMetricsTask creates a task to recompute campaign rollups
func NewRefreshMetricsTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeRefreshMetrics, nil), nil
}

// ParseLeadPayload parses a lead task payload from an Asynq task
func ParseLeadPayload(task *asynq.Task) (LeadPayload, error) {
	var payload LeadPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}

// ParseCampaignPayload parses a campaign task payload from an Asynq task
func ParseCampaignPayload(task *asynq.Task) (CampaignPayload, error) {
	var payload CampaignPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}
