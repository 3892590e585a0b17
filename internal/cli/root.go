package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reachly-dev/reachly/internal/cli/commands"
	"github.com/reachly-dev/reachly/internal/cli/update"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "reachly",
	Short: "Reachly - AI-driven advertising campaigns and lead generation",
	Long: `Reachly CLI - Build and launch ad campaigns from your terminal.

Compose campaigns with the step-by-step wizard, track captured leads,
and manage your account across nine advertising platforms.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Skip update check for the update and version commands
		if cmd.Name() == "update" || cmd.Name() == "version" {
			return
		}

		update.PrintNotification(version)
	},
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reachly version %s\n", version)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Update the CLI to the latest version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return update.SelfUpdate(version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewCreateCmd())
	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewDeleteCmd())
	rootCmd.AddCommand(commands.NewLeadsCmd())
	rootCmd.AddCommand(commands.NewEnginesCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
