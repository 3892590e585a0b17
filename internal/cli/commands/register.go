package commands

import (
	"encoding/json"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reachly-dev/reachly/internal/apiclient"
	"github.com/reachly-dev/reachly/internal/cli/session"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var email, password, name, company string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new Reachly account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(session.Default, email, password, name, company)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&company, "company", "", "Company name")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")

	return cmd
}

func runRegister(store session.Store, email, password, name, company string) error {
	if email == "" {
		return fmt.Errorf("email is required (use --email)")
	}
	if name == "" {
		return fmt.Errorf("name is required (use --name)")
	}

	if password == "" {
		if !term.IsTerminal(int(syscall.Stdin)) {
			return fmt.Errorf("password is required in non-interactive mode (use --password)")
		}
		fmt.Print("Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(bytePassword)
		fmt.Println()
	}

	client := newAPIClient(store)

	raw, err := client.Post("/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
		"company":  company,
	}, &apiclient.RequestOptions{NoAuth: true})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
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

	fmt.Println("✓ Account created!")
	fmt.Printf("  User: %s (%s)\n", resp.User.Name, resp.User.Email)
	fmt.Println("  Your account is pending approval; you can build campaigns now and launch once approved.")
	return nil
}
