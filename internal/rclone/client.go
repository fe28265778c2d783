// Package rclone wraps the synchronization tool's remote-control commands.
// The control endpoint has no real API surface for credential state; both
// the query and the swap confirmation are recovered by scanning command
// output for known markers, and any shape mismatch is surfaced rather than
// guessed around.
package rclone

import (
	"context"
	"strings"

	saerrors "github.com/systmms/sarotate/internal/errors"
	"github.com/systmms/sarotate/internal/logging"
	"github.com/systmms/sarotate/internal/secure"
	saexec "github.com/systmms/sarotate/pkg/exec"
)

const (
	// credentialField is the configuration field naming the active
	// credential file. Its value's final path segment is the rotation
	// identity.
	credentialField = "service_account_file"

	// resultMarker separates the human-readable portion of swap output from
	// the JSON result payload.
	resultMarker = "---"
)

// Client issues control-endpoint commands through an injected executor.
type Client struct {
	executor saexec.CommandExecutor
	logger   *logging.Logger

	binary     string
	user       string
	pass       *secure.Buffer
	configPath string
}

// Option configures a Client.
type Option func(*Client)

// WithExecutor overrides the command executor, for tests.
func WithExecutor(executor saexec.CommandExecutor) Option {
	return func(c *Client) { c.executor = executor }
}

// WithAuth sets the control endpoint credentials. pass may be nil.
func WithAuth(user string, pass *secure.Buffer) Option {
	return func(c *Client) {
		c.user = user
		c.pass = pass
	}
}

// WithConfigFile overrides the tool's config file on every invocation.
func WithConfigFile(path string) Option {
	return func(c *Client) { c.configPath = path }
}

// NewClient creates a control-endpoint client.
func NewClient(logger *logging.Logger, opts ...Option) *Client {
	c := &Client{
		executor: saexec.DefaultExecutor(),
		logger:   logger,
		binary:   "rclone",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// baseArgs assembles the shared rc flags for a control address.
func (c *Client) baseArgs(addr string) []string {
	args := []string{"rc", "--rc-addr", addr}
	if c.user != "" {
		args = append(args, "--rc-user", c.user)
	}
	if c.pass != nil {
		if locked, err := c.pass.Open(); err == nil {
			args = append(args, "--rc-pass", locked.String())
			locked.Destroy()
		}
	}
	if c.configPath != "" {
		args = append(args, "--config", c.configPath)
	}
	return args
}

// ActiveCredential queries the live configuration of a remote and returns
// the file name of its currently active credential.
//
// The reply is opaque text; the credential is located by scanning for the
// known field name and taking the final path segment of its value. Any
// failure is reported as RecoveryLookupFailed: callers log and proceed with
// the built-in order.
func (c *Client) ActiveCredential(ctx context.Context, addr, remote string) (string, error) {
	args := append(c.baseArgs(addr), "config/get", "name="+remote)

	stdout, stderr, err := c.executor.Execute(ctx, c.binary, args...)
	if err != nil {
		return "", saerrors.Wrap(saerrors.KindRecoveryLookupFailed, err,
			"querying active credential for remote %s: %s", remote, strings.TrimSpace(string(stderr)))
	}

	name, ok := scanCredentialField(string(stdout))
	if !ok {
		return "", saerrors.New(saerrors.KindRecoveryLookupFailed,
			"remote %s configuration does not name a %s", remote, credentialField)
	}

	c.logger.Debug("Remote %s currently uses credential %s", remote, name)
	return name, nil
}

// Swap instructs the control endpoint to activate credPath for the remote.
// Exit code zero is the sole success signal; on success the result payload
// is parsed for the previous and current credential paths.
func (c *Client) Swap(ctx context.Context, addr, remote, credPath string) (*SwapResult, error) {
	args := append(c.baseArgs(addr),
		"backend/command",
		"command=set",
		"fs="+remote+":",
		"-o", credentialField+"="+credPath,
	)

	stdout, stderr, err := c.executor.Execute(ctx, c.binary, args...)
	if err != nil {
		return nil, saerrors.Wrap(saerrors.KindSwapCommandFailed, err,
			"swap command for remote %s exited with code %d: %s",
			remote, saexec.ExitCode(err), strings.TrimSpace(string(stderr)))
	}

	return parseSwapResult(string(stdout))
}

// scanCredentialField finds the credential field in configuration text and
// returns the base name of its value. Tolerates both "key = value" and
// JSON-style `"key": "value"` lines; everything else in the reply is
// ignored.
func scanCredentialField(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, credentialField)
		if idx < 0 {
			continue
		}

		rest := line[idx+len(credentialField):]
		rest = strings.TrimLeft(rest, `"`)
		rest = strings.TrimSpace(rest)
		if len(rest) == 0 || (rest[0] != '=' && rest[0] != ':') {
			continue
		}
		value := strings.TrimSpace(rest[1:])
		value = strings.Trim(value, `",`)
		if value == "" {
			continue
		}

		segments := strings.Split(value, "/")
		name := segments[len(segments)-1]
		if name == "" {
			continue
		}
		return name, true
	}
	return "", false
}
