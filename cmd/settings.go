package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/scandium/internal/shared"
	"github.com/desertthunder/scandium/internal/ui"
	"github.com/urfave/cli/v3"
)

// Init writes the example configuration to the --config path. An existing file is left alone.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlainln("%s %s", ui.Styles.OK("✓ Created"), path)
}

// ShowConfig prints the effective configuration as TOML, or JSON with --json.
// The TOML output is itself a valid settings file.
func (r *Runner) ShowConfig(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	settings := config.Settings()
	if cmd.Bool("json") {
		return r.writeJSON(settings, true)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return r.writePlain("%s", buf.String())
}
