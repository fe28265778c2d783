package credstore

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	saerrors "github.com/systmms/sarotate/internal/errors"
)

// credentialFile is the subset of a service-account JSON document we need.
type credentialFile struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// Load recursively enumerates dir and parses every .json file (matched
// case-insensitively) into a Record.
//
// Fails with NotFound when dir does not exist, MalformedCredential when a
// file does not parse into the expected shape, and EmptyCredentialSet when
// the directory yields zero usable files. All three are fatal startup
// conditions for the group.
func Load(dir string) ([]*Record, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, saerrors.New(saerrors.KindNotFound, "credential directory %s does not exist", dir).
				WithSuggestion("Check the 'remotes' section of sarotate.yaml")
		}
		return nil, saerrors.Wrap(saerrors.KindNotFound, err, "credential directory %s is not accessible", dir)
	}
	if !info.IsDir() {
		return nil, saerrors.New(saerrors.KindNotFound, "%s is not a directory", dir)
	}

	var records []*Record
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}

		record, err := parseFile(path)
		if err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})
	if walkErr != nil {
		if saerrors.KindOf(walkErr) == saerrors.KindMalformedCredential {
			return nil, walkErr
		}
		return nil, saerrors.Wrap(saerrors.KindNotFound, walkErr, "scanning credential directory %s", dir)
	}

	if len(records) == 0 {
		return nil, saerrors.New(saerrors.KindEmptyCredentialSet, "credential directory %s contains no usable .json files", dir).
			WithSuggestion("Place at least one service-account file in the directory")
	}

	return records, nil
}

func parseFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, saerrors.Wrap(saerrors.KindMalformedCredential, err, "reading credential file %s", path)
	}

	var cred credentialFile
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, saerrors.Wrap(saerrors.KindMalformedCredential, err, "parsing credential file %s", path)
	}
	if cred.ProjectID == "" || cred.ClientEmail == "" {
		return nil, saerrors.New(saerrors.KindMalformedCredential,
			"credential file %s is missing project_id or client_email", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, saerrors.Wrap(saerrors.KindMalformedCredential, err, "resolving credential path %s", path)
	}

	return &Record{
		FileName:    filepath.Base(path),
		FilePath:    abs,
		ProjectID:   cred.ProjectID,
		ClientEmail: cred.ClientEmail,
	}, nil
}
