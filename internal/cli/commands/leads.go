package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reachly-dev/reachly/internal/apiclient"
	"github.com/reachly-dev/reachly/internal/cli/session"
)

type leadSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Score    int    `json:"score"`
	Source   string `json:"source"`
	Campaign string `json:"campaign_id"`
}

// NewLeadsCmd creates the leads command group
func NewLeadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List captured leads",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeadsList(session.Default)
		},
	}

	cmd.AddCommand(newLeadsCaptureCmd())
	return cmd
}

func runLeadsList(store session.Store) error {
	if _, err := requireLogin(store); err != nil {
		return err
	}

	client := newAPIClient(store)

	raw, err := client.Get("/api/leads", nil)
	if err != nil {
		return err
	}

	var leads []leadSummary
	if err := json.Unmarshal(raw, &leads); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(leads) == 0 {
		fmt.Println("No leads captured yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tSTATUS\tSCORE\tSOURCE")
	fmt.Fprintln(w, "──\t─────\t────\t──────\t─────\t──────")

	for _, l := range leads {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			l.ID, l.Email, l.Name, l.Status, l.Score, l.Source)
	}

	w.Flush()
	return nil
}

// newLeadsCaptureCmd submits a lead through the public landing endpoint.
// This is the same unauthenticated path the hosted landing pages use, so
// no Authorization header is sent even when a session exists.
func newLeadsCaptureCmd() *cobra.Command {
	var email, name, phone, message, campaignID string

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Submit a lead via the public landing form endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeadsCapture(session.Default, email, name, phone, message, campaignID)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Lead email (required)")
	cmd.Flags().StringVar(&name, "name", "", "Lead name")
	cmd.Flags().StringVar(&phone, "phone", "", "Lead phone number")
	cmd.Flags().StringVar(&message, "message", "", "Free-form message")
	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign to attribute the lead to")

	return cmd
}

func runLeadsCapture(store session.Store, email, name, phone, message, campaignID string) error {
	if email == "" {
		return fmt.Errorf("email is required (use --email)")
	}

	client := newAPIClient(store)

	body := map[string]string{
		"email":   email,
		"name":    name,
		"phone":   phone,
		"message": message,
	}
	if campaignID != "" {
		body["campaign_id"] = campaignID
	}

	if _, err := client.Post("/api/leads/landing", body, &apiclient.RequestOptions{NoAuth: true}); err != nil {
		return err
	}

	fmt.Println("✓ Lead submitted.")
	return nil
}
