package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reachly-dev/reachly/internal/cli/session"
)

// campaignSummary is the slice of the campaign resource the list view shows
type campaignSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Platform    string  `json:"platform"`
	Objective   string  `json:"objective"`
	Status      string  `json:"status"`
	DailyBudget float64 `json:"daily_budget"`
	LeadCount   int     `json:"lead_count"`
}

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your campaigns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(session.Default)
		},
	}
}

func runList(store session.Store) error {
	if _, err := requireLogin(store); err != nil {
		return err
	}

	client := newAPIClient(store)

	raw, err := client.Get("/api/campaigns", nil)
	if err != nil {
		return err
	}

	var campaigns []campaignSummary
	if err := json.Unmarshal(raw, &campaigns); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(campaigns) == 0 {
		fmt.Println("No campaigns found.")
		fmt.Println("\nCreate one with: reachly create")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPLATFORM\tOBJECTIVE\tSTATUS\tBUDGET/DAY\tLEADS")
	fmt.Fprintln(w, "──\t────\t────────\t─────────\t──────\t──────────\t─────")

	for _, c := range campaigns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t$%.2f\t%d\n",
			c.ID, c.Name, c.Platform, c.Objective, c.Status, c.DailyBudget, c.LeadCount)
	}

	w.Flush()
	return nil
}
