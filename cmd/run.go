package main

import (
	"context"

	"github.com/desertthunder/scandium/internal/harness"
	"github.com/desertthunder/scandium/internal/shared"
	"github.com/desertthunder/scandium/internal/ui"
	"github.com/urfave/cli/v3"
)

// Run serves the configured application and blocks until its window closes.
//
// Without STATIC_RESOURCE and TEMPLATE_RESOURCE the built-in demo site is served.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("port") {
		config.HTTPPort = cmd.Int("port")
	}
	if cmd.Bool("debug") {
		config.Debug, config.AppDebug = true, true
		shared.ConfigureLogger(r.logger, config)
	}

	demo := useDemo(config)
	if demo {
		r.logger.Debug("no project resources configured")
		if err := r.writePlainln("%s", ui.Styles.Warn("No STATIC_RESOURCE or TEMPLATE_RESOURCE set, serving the built-in demo site.")); err != nil {
			return err
		}
	}

	h := harness.New(config, harness.Options{
		Logger:      r.logger,
		SurfaceKind: surfaceKind(cmd),
		Surface:     r.surface,
		Dialog:      r.saveDialog(cmd),
	})
	if demo {
		if err := demoRoutes(h); err != nil {
			return err
		}
	}

	return h.Start(ctx)
}

func surfaceKind(cmd *cli.Command) string {
	switch {
	case cmd.Bool("headless"):
		return harness.SurfaceHeadless
	case cmd.Bool("system-browser"):
		return harness.SurfaceSystem
	default:
		return harness.SurfaceWebview
	}
}

// saveDialog asks on the terminal unless prompting is off or there is no window to download from.
func (r *Runner) saveDialog(cmd *cli.Command) ui.SaveDialog {
	if r.dialog != nil {
		return r.dialog
	}
	if cmd.Bool("no-prompt") || cmd.Bool("headless") {
		return ui.FixedDialog{}
	}
	return &ui.PromptDialog{}
}
