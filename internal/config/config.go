package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	saerrors "github.com/systmms/sarotate/internal/errors"
	"github.com/systmms/sarotate/internal/logging"
	"github.com/systmms/sarotate/internal/secure"
)

// keyringPrefix marks an rc password that should be resolved from the OS
// keyring instead of being used literally: keyring:<service>/<user>
const keyringPrefix = "keyring:"

// Config holds the runtime configuration
type Config struct {
	Path       string
	Logger     *logging.Logger
	Definition *Definition
}

// Definition represents the sarotate.yaml structure
type Definition struct {
	RC            RCConfig                       `yaml:"rc"`
	Interval      int                            `yaml:"interval"`
	Remotes       map[string]map[string][]string `yaml:"remotes"`
	Notifications NotificationConfig             `yaml:"notifications"`
	MetricsAddr   string                         `yaml:"metrics_addr,omitempty"`
}

// RCConfig holds access to the rclone remote-control endpoint
type RCConfig struct {
	User string `yaml:"user,omitempty"`
	Pass string `yaml:"pass,omitempty"`
	// Config optionally overrides the rclone config file passed on every
	// invocation
	Config string `yaml:"config,omitempty"`
}

// NotificationConfig holds the alerting targets and the severity floor
type NotificationConfig struct {
	// Targets are Apprise-style notification URLs
	Targets []string `yaml:"targets,omitempty"`

	// ErrorsOnly suppresses external dispatch for severities below error
	ErrorsOnly bool `yaml:"errors_only,omitempty"`
}

// Load reads, parses and schema-validates the sarotate.yaml file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return saerrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Create a sarotate.yaml or point --config at one",
			}
		}
		return fmt.Errorf("reading configuration file: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return saerrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}

	if err := validateDefinition(data); err != nil {
		return err
	}

	c.Definition = &def
	return nil
}

// GroupDirs returns the configured credential directories in sorted order,
// so passes visit groups deterministically.
func (c *Config) GroupDirs() []string {
	if c.Definition == nil {
		return nil
	}
	dirs := make([]string, 0, len(c.Definition.Remotes))
	for dir := range c.Definition.Remotes {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// RemotesFor returns the remote names bound to a credential directory in
// sorted order, each paired with its first configured control address. The
// config format allows several addresses per remote but one credential set
// serves one endpoint, so only the first is used.
func (c *Config) RemotesFor(dir string) map[string]string {
	if c.Definition == nil {
		return nil
	}
	bindings := make(map[string]string)
	for remote, addrs := range c.Definition.Remotes[dir] {
		if len(addrs) == 0 {
			continue
		}
		bindings[remote] = addrs[0]
	}
	return bindings
}

// ResolveRCPassword resolves the configured rc password into a protected
// buffer. A value of the form keyring:<service>/<user> is looked up in the
// OS keyring; anything else is taken literally. Returns nil when no
// password is configured.
func (c *Config) ResolveRCPassword() (*secure.Buffer, error) {
	if c.Definition == nil || c.Definition.RC.Pass == "" {
		return nil, nil
	}

	pass := c.Definition.RC.Pass
	if !strings.HasPrefix(pass, keyringPrefix) {
		return secure.NewBuffer([]byte(pass)), nil
	}

	ref := strings.TrimPrefix(pass, keyringPrefix)
	service, user, ok := strings.Cut(ref, "/")
	if !ok || service == "" || user == "" {
		return nil, saerrors.ConfigError{
			Field:      "rc.pass",
			Value:      pass,
			Message:    "malformed keyring reference",
			Suggestion: "Use the form keyring:<service>/<user>",
		}
	}

	secret, err := keyring.Get(service, user)
	if err != nil {
		return nil, saerrors.ConfigError{
			Field:      "rc.pass",
			Message:    fmt.Sprintf("keyring lookup for %s/%s failed: %v", service, user, err),
			Suggestion: "Store the password with your OS keyring tool first",
		}
	}

	return secure.NewBuffer([]byte(secret)), nil
}
