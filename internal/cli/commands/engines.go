package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reachly-dev/reachly/internal/engines"
)

// NewEnginesCmd creates the engines listing command
func NewEnginesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the supported advertising platforms and their objectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngines()
		},
	}
}

func runEngines() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tOBJECTIVES")
	fmt.Fprintln(w, "──\t────\t──────────")

	for _, e := range engines.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, e.Name, strings.Join(e.Objectives, ", "))
	}

	w.Flush()
	return nil
}
