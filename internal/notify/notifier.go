// Package notify dispatches human-readable rotation events to the alerting
// channel. Dispatch is best-effort: a failed notification is logged and
// never destabilizes the rotation loop.
package notify

import (
	"context"
	"strings"

	"github.com/systmms/sarotate/internal/logging"
	saexec "github.com/systmms/sarotate/pkg/exec"
)

// Severity orders notification levels. The errors-only configuration flag
// suppresses external dispatch below SeverityError.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// String returns the severity name used in logs.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Notifier formats and dispatches events to the configured alerting targets.
type Notifier struct {
	executor   saexec.CommandExecutor
	logger     *logging.Logger
	binary     string
	targets    []string
	errorsOnly bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithExecutor overrides the command executor, for tests.
func WithExecutor(executor saexec.CommandExecutor) Option {
	return func(n *Notifier) { n.executor = executor }
}

// New creates a notifier for the given targets. With errorsOnly set,
// severities below error are logged locally but never dispatched.
func New(logger *logging.Logger, targets []string, errorsOnly bool, opts ...Option) *Notifier {
	n := &Notifier{
		executor:   saexec.DefaultExecutor(),
		logger:     logger,
		binary:     "apprise",
		targets:    targets,
		errorsOnly: errorsOnly,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify logs the message locally and, severity and configuration
// permitting, invokes the alerting command with every configured target.
func (n *Notifier) Notify(ctx context.Context, severity Severity, message string) {
	n.logLocal(severity, message)

	if n.errorsOnly && severity < SeverityError {
		n.logger.Debug("Suppressing %s notification (errors-only mode)", severity)
		return
	}
	if len(n.targets) == 0 {
		return
	}

	args := append([]string{"-b", sanitizeMessage(message)}, n.targets...)
	if _, stderr, err := n.executor.Execute(ctx, n.binary, args...); err != nil {
		n.logger.Error("Notification dispatch failed (exit code %d): %s",
			saexec.ExitCode(err), strings.TrimSpace(string(stderr)))
	}
}

func (n *Notifier) logLocal(severity Severity, message string) {
	switch severity {
	case SeverityInfo:
		n.logger.Info("%s", message)
	case SeverityWarning:
		n.logger.Warn("%s", message)
	case SeverityError:
		n.logger.Error("%s", message)
	case SeverityCritical:
		n.logger.Critical("%s", message)
	}
}

// sanitizeMessage neutralizes quote characters so the message cannot break
// the alerting command's quoting.
func sanitizeMessage(message string) string {
	replacer := strings.NewReplacer(`'`, "`", `"`, "`")
	return replacer.Replace(message)
}
