package rclone

import (
	"encoding/json"
	"path"
	"strings"

	saerrors "github.com/systmms/sarotate/internal/errors"
)

// SwapResult describes a completed credential swap as reported by the
// control endpoint.
type SwapResult struct {
	// Current is the file name of the credential now active.
	Current string

	// Previous is the file name of the credential that was active before.
	Previous string
}

// swapPayload mirrors the JSON object emitted after the result marker.
type swapPayload struct {
	Result struct {
		ServiceAccountFile struct {
			Current  string `json:"current"`
			Previous string `json:"previous"`
		} `json:"service_account_file"`
	} `json:"result"`
}

// parseSwapResult extracts the JSON payload following the result marker.
// A missing marker, undecodable JSON, or an empty current field all mean
// the external tool's output contract changed, which is ResultParseFailed
// and fatal for unattended operation.
func parseSwapResult(output string) (*SwapResult, error) {
	_, payload, found := strings.Cut(output, resultMarker)
	if !found {
		return nil, saerrors.New(saerrors.KindResultParseFailed,
			"swap output contains no %q marker", resultMarker)
	}

	var decoded swapPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &decoded); err != nil {
		return nil, saerrors.Wrap(saerrors.KindResultParseFailed, err,
			"decoding swap result payload")
	}

	sa := decoded.Result.ServiceAccountFile
	if sa.Current == "" {
		return nil, saerrors.New(saerrors.KindResultParseFailed,
			"swap result payload names no current credential")
	}

	result := &SwapResult{Current: path.Base(sa.Current)}
	if sa.Previous != "" {
		result.Previous = path.Base(sa.Previous)
	}
	return result, nil
}
