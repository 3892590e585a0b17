package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reachly-dev/reachly/internal/cli/session"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(session.Default)
		},
	}
}

func runLogout(store session.Store) error {
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}
