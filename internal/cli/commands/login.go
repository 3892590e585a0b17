package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reachly-dev/reachly/internal/apiclient"
	"github.com/reachly-dev/reachly/internal/cli/config"
	"github.com/reachly-dev/reachly/internal/cli/session"
)

// loginResponse mirrors the token and user summary the auth endpoints return
type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID     string `json:"id"`
		Email  string `json:"email"`
		Name   string `json:"name"`
		Role   string `json:"role"`
		Status string `json:"status"`
	} `json:"user"`
}

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with Reachly",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(session.Default, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set REACHLY_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set REACHLY_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(store session.Store, email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("REACHLY_EMAIL")
	}
	if password == "" {
		password = os.Getenv("REACHLY_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or REACHLY_EMAIL env var)")
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println()
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or REACHLY_PASSWORD env var)")
		}
	}

	client := newAPIClient(store)

	fmt.Printf("Logging in to %s...\n", config.APIURL())

	raw, err := client.Post("/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &apiclient.RequestOptions{NoAuth: true})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if err := store.SaveToken(resp.Token); err != nil {
		return fmt.Errorf("failed to save authentication token: %w", err)
	}
	if err := store.SaveUser(session.User{
		ID:     resp.User.ID,
		Email:  resp.User.Email,
		Name:   resp.User.Name,
		Role:   resp.User.Role,
		Status: resp.User.Status,
	}); err != nil {
		return fmt.Errorf("failed to save user record: %w", err)
	}

	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", resp.User.Name, resp.User.Email)
	if resp.User.Role == "admin" {
		fmt.Println("  Role: Admin")
	}
	if resp.User.Status == "pending" {
		fmt.Println("  Note: your account is pending approval; campaign launches are disabled until approved.")
	}

	return nil
}
