package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reachly-dev/reachly/internal/cli/session"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current account and its approval status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(session.Default)
		},
	}
}

func runWhoami(store session.Store) error {
	if _, err := requireLogin(store); err != nil {
		return err
	}

	client := newAPIClient(store)

	// Status can change server-side (pending -> approved), so always
	// fetch fresh rather than trusting the stored record
	raw, err := client.Get("/api/auth/me", nil)
	if err != nil {
		return err
	}

	var user session.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	// Refresh the stored record with the latest status
	if err := store.SaveUser(user); err != nil {
		return fmt.Errorf("failed to update user record: %w", err)
	}

	fmt.Printf("%s (%s)\n", user.Name, user.Email)
	fmt.Printf("  Role:   %s\n", user.Role)
	fmt.Printf("  Status: %s\n", user.Status)
	return nil
}
