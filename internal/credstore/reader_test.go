package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	saerrors "github.com/systmms/sarotate/internal/errors"
)

func writeCredential(t *testing.T, dir, name, project, email string) {
	t.Helper()
	content := `{"type":"service_account","project_id":"` + project + `","client_email":"` + email + `"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad_ParsesRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCredential(t, dir, "sa-01.json", "proj-a", "sa-01@proj-a.iam.gserviceaccount.com")
	writeCredential(t, dir, "sa-02.JSON", "proj-b", "sa-02@proj-b.iam.gserviceaccount.com")

	// nested directory scanned recursively
	nested := filepath.Join(dir, "more")
	require.NoError(t, os.Mkdir(nested, 0o755))
	writeCredential(t, nested, "sa-03.json", "proj-a", "sa-03@proj-a.iam.gserviceaccount.com")

	// non-json file ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs"), 0o644))

	records, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, records, 3)

	byName := map[string]*Record{}
	for _, r := range records {
		byName[r.FileName] = r
	}
	require.Contains(t, byName, "sa-01.json")
	assert.Equal(t, "proj-a", byName["sa-01.json"].ProjectID)
	assert.Equal(t, "sa-01@proj-a.iam.gserviceaccount.com", byName["sa-01.json"].ClientEmail)
	assert.True(t, filepath.IsAbs(byName["sa-01.json"].FilePath))
	assert.Contains(t, byName, "sa-02.JSON")
	assert.Contains(t, byName, "sa-03.json")
}

func TestLoad_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/credentials")
	require.Error(t, err)
	assert.Equal(t, saerrors.KindNotFound, saerrors.KindOf(err))
}

func TestLoad_EmptyDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Equal(t, saerrors.KindEmptyCredentialSet, saerrors.KindOf(err))
}

func TestLoad_MalformedCredential(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{not json`},
		{"missing project_id", `{"client_email":"a@b"}`},
		{"missing client_email", `{"project_id":"proj-a"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(tt.content), 0o600))

			_, err := Load(dir)
			require.Error(t, err)
			assert.Equal(t, saerrors.KindMalformedCredential, saerrors.KindOf(err))
		})
	}
}

func TestLoad_FileInsteadOfDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, saerrors.KindNotFound, saerrors.KindOf(err))
}
