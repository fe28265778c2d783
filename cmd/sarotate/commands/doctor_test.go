package commands

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// overrideLookPath swaps the binary lookup for the duration of a test.
// Tests using it must not run in parallel.
func overrideLookPath(t *testing.T, found map[string]bool) {
	t.Helper()
	original := lookPath
	lookPath = func(name string) (string, error) {
		if found[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
	t.Cleanup(func() { lookPath = original })
}

func TestRunDoctor_AllChecksPass(t *testing.T) {
	overrideLookPath(t, map[string]bool{"rclone": true, "apprise": true})

	cfg, _ := newTestSetup(t, "a1.json:proj-a:a1@proj-a.iam")

	var buf bytes.Buffer
	require.NoError(t, runDoctor(cfg, &buf))
	assert.Contains(t, buf.String(), "All checks passed")
	assert.Contains(t, buf.String(), "1 credential(s)")
}

func TestRunDoctor_MissingRclone(t *testing.T) {
	overrideLookPath(t, map[string]bool{})

	cfg, _ := newTestSetup(t, "a1.json:proj-a:a1@proj-a.iam")

	var buf bytes.Buffer
	err := runDoctor(cfg, &buf)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "rclone: not found on PATH")
}

func TestRunDoctor_EmptyCredentialDirectory(t *testing.T) {
	overrideLookPath(t, map[string]bool{"rclone": true})

	cfg, _ := newTestSetup(t)

	var buf bytes.Buffer
	err := runDoctor(cfg, &buf)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "credential directory")
}

func TestRunDoctor_AppriseOnlyCheckedWithTargets(t *testing.T) {
	overrideLookPath(t, map[string]bool{"rclone": true})

	// no notification targets configured: apprise absence is fine
	cfg, _ := newTestSetup(t, "a1.json:proj-a:a1@proj-a.iam")

	var buf bytes.Buffer
	require.NoError(t, runDoctor(cfg, &buf))
	assert.NotContains(t, buf.String(), "apprise")
}
