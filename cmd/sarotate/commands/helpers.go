package commands

import (
	"github.com/systmms/sarotate/internal/config"
	"github.com/systmms/sarotate/internal/credstore"
	"github.com/systmms/sarotate/internal/rclone"
	"github.com/systmms/sarotate/internal/rotation"
)

// buildGroups discovers every configured credential directory and computes
// its balanced usage order. Any error here is a fatal startup condition.
func buildGroups(cfg *config.Config) ([]*rotation.Group, error) {
	var groups []*rotation.Group
	for _, dir := range cfg.GroupDirs() {
		records, err := credstore.Load(dir)
		if err != nil {
			return nil, err
		}
		order := rotation.BuildOrder(records, cfg.Logger)
		groups = append(groups, rotation.NewGroup(dir, cfg.RemotesFor(dir), order))
	}
	return groups, nil
}

// buildClient assembles the control-endpoint client from configuration,
// resolving the rc password into a protected buffer first.
func buildClient(cfg *config.Config, opts ...rclone.Option) (*rclone.Client, error) {
	pass, err := cfg.ResolveRCPassword()
	if err != nil {
		return nil, err
	}

	rc := cfg.Definition.RC
	opts = append(opts, rclone.WithAuth(rc.User, pass))
	if rc.Config != "" {
		opts = append(opts, rclone.WithConfigFile(rc.Config))
	}
	return rclone.NewClient(cfg.Logger, opts...), nil
}
