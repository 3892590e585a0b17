package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reachly-dev/reachly/internal/cli/session"
)

// NewDeleteCmd creates the campaign delete command
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <campaign-id>",
		Short: "Delete a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(session.Default, args[0])
		},
	}
}

func runDelete(store session.Store, campaignID string) error {
	if _, err := requireLogin(store); err != nil {
		return err
	}

	client := newAPIClient(store)

	if _, err := client.Delete(fmt.Sprintf("/api/campaigns/%s", campaignID), nil); err != nil {
		return err
	}

	fmt.Printf("Campaign %s deleted.\n", campaignID)
	return nil
}
