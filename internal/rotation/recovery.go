package rotation

import (
	"context"

	"github.com/systmms/sarotate/internal/logging"
	"github.com/systmms/sarotate/internal/rclone"
)

// ControlClient is the subset of the control-endpoint client the rotation
// core depends on.
type ControlClient interface {
	// ActiveCredential returns the file name of the credential currently
	// configured for a remote.
	ActiveCredential(ctx context.Context, addr, remote string) (string, error)

	// Swap activates credPath for a remote and reports the result.
	Swap(ctx context.Context, addr, remote, credPath string) (*rclone.SwapResult, error)
}

// Recover aligns a freshly built queue with the credential already active
// externally, so a restart does not reuse the same account twice in a row.
//
// For each remote the live configuration is queried; the active credential,
// if found in the queue, is moved to the back so the next front element
// differs from it. Lookup failures and stale state are logged and skipped:
// the built-in order stands and the active credential may repeat once on
// first activation, which is acceptable degraded behavior.
//
// Recover is idempotent for an unchanged external answer and runs once per
// remote, sequentially, before the swap loop begins.
func Recover(ctx context.Context, client ControlClient, group *Group, logger *logging.Logger) {
	for _, remote := range group.RemoteNames() {
		active, err := client.ActiveCredential(ctx, group.AddressOf(remote), remote)
		if err != nil {
			logger.Warn("Skipping state recovery for remote %s: %v", remote, err)
			continue
		}

		if !group.MoveToBack(active) {
			logger.Warn("Remote %s uses credential %s which is not in %s; skipping state recovery",
				remote, active, group.Dir)
			continue
		}

		logger.Info("Recovered rotation state for remote %s: %s moved to back of queue", remote, active)
	}
}
