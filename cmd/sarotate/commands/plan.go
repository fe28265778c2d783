package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/systmms/sarotate/internal/config"
)

// NewPlanCommand creates the 'plan' command: print the computed rotation
// order without touching the control endpoint.
func NewPlanCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the computed rotation order for every credential group",
		Long: `Discover each configured credential directory and print the balanced
usage order the rotation loop would follow, without issuing any swap.

The order spreads usage evenly across projects: round-robin across the
distinct projects present, alphabetical by account email within a project.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			return runPlan(cfg, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runPlan(cfg *config.Config, out io.Writer) error {
	groups, err := buildGroups(cfg)
	if err != nil {
		return err
	}

	for _, group := range groups {
		fmt.Fprintf(out, "Group %s (remotes: %v)\n", group.Dir, group.RemoteNames())

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  #\tCREDENTIAL\tPROJECT\tACCOUNT")
		for i, record := range group.Records() {
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", i+1, record.FileName, record.ProjectID, record.ClientEmail)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return nil
}
