package commands

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/systmms/sarotate/internal/config"
	"github.com/systmms/sarotate/internal/credstore"
)

// lookPath is swapped in tests to control binary discovery.
var lookPath = exec.LookPath

// NewDoctorCommand creates the 'doctor' command: environment checks.
func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credential directories and required tools",
		Long: `Verify that the rotation daemon can start:

- Configuration file parses and passes schema validation
- Every configured credential directory yields usable credentials
- The rclone binary is on PATH
- The apprise binary is on PATH when notification targets are configured`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cfg, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runDoctor(cfg *config.Config, out io.Writer) error {
	failed := false

	if err := cfg.Load(); err != nil {
		fmt.Fprintf(out, "✗ configuration: %v\n", err)
		return fmt.Errorf("configuration is not usable")
	}
	fmt.Fprintf(out, "✓ configuration: %s\n", cfg.Path)

	for _, dir := range cfg.GroupDirs() {
		records, err := credstore.Load(dir)
		if err != nil {
			fmt.Fprintf(out, "✗ credential directory %s: %v\n", dir, err)
			failed = true
			continue
		}
		fmt.Fprintf(out, "✓ credential directory %s: %d credential(s)\n", dir, len(records))
	}

	if path, err := lookPath("rclone"); err != nil {
		fmt.Fprintf(out, "✗ rclone: not found on PATH\n")
		failed = true
	} else {
		fmt.Fprintf(out, "✓ rclone: %s\n", path)
	}

	if len(cfg.Definition.Notifications.Targets) > 0 {
		if path, err := lookPath("apprise"); err != nil {
			fmt.Fprintf(out, "✗ apprise: not found on PATH but notification targets are configured\n")
			failed = true
		} else {
			fmt.Fprintf(out, "✓ apprise: %s\n", path)
		}
	}

	if failed {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Fprintln(out, "All checks passed")
	return nil
}
