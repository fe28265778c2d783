package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/systmms/sarotate/internal/config"
	"github.com/systmms/sarotate/internal/rotation"
)

// NewStatusCommand creates the 'status' command: report each remote's
// currently active credential without changing anything.
func NewStatusCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the credential currently active on every remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			return runStatus(cmd.Context(), cfg, client, cmd.OutOrStdout())
		},
	}

	return cmd
}

// statusClient is the read-only slice of the control client status needs.
type statusClient interface {
	ActiveCredential(ctx context.Context, addr, remote string) (string, error)
}

func runStatus(ctx context.Context, cfg *config.Config, client statusClient, out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tREMOTE\tADDRESS\tACTIVE CREDENTIAL")

	for _, dir := range cfg.GroupDirs() {
		group := rotation.NewGroup(dir, cfg.RemotesFor(dir), nil)
		for _, remote := range group.RemoteNames() {
			addr := group.AddressOf(remote)
			active, err := client.ActiveCredential(ctx, addr, remote)
			if err != nil {
				active = "unknown"
				cfg.Logger.Warn("Could not query remote %s: %v", remote, err)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", dir, remote, addr, active)
		}
	}
	return w.Flush()
}
