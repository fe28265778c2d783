package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/systmms/sarotate/internal/config"
	"github.com/systmms/sarotate/internal/logging"
)

// newTestSetup builds a config file over a temp credential directory holding
// the given credentials, each spelled "name:project:email".
func newTestSetup(t *testing.T, creds ...string) (*config.Config, string) {
	t.Helper()

	credDir := t.TempDir()
	for _, spec := range creds {
		parts := strings.SplitN(spec, ":", 3)
		require.Len(t, parts, 3)
		content := fmt.Sprintf(`{"type":"service_account","project_id":%q,"client_email":%q}`, parts[1], parts[2])
		require.NoError(t, os.WriteFile(filepath.Join(credDir, parts[0]), []byte(content), 0o600))
	}

	configContent := fmt.Sprintf(`
interval: 1
remotes:
  %s:
    gdrive: ["localhost:5572"]
`, credDir)

	configPath := filepath.Join(t.TempDir(), "sarotate.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	cfg := &config.Config{Path: configPath, Logger: logging.New(false, true)}
	require.NoError(t, cfg.Load())
	return cfg, credDir
}
