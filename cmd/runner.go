package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scandium/internal/browser"
	"github.com/desertthunder/scandium/internal/shared"
	"github.com/desertthunder/scandium/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	surface browser.Surface
	dialog  ui.SaveDialog
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	// Config skips reading --config when set.
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	// Surface and Dialog replace the window and save prompt chosen from flags.
	Surface browser.Surface
	Dialog  ui.SaveDialog
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		surface: opts.Surface,
		dialog:  opts.Dialog,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		runCommand, initCommand, configCommand, downloadsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads the settings file named by --config over the defaults and
// applies environment overrides. A missing file is only an error when the
// flag was given explicitly.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	path := cmd.String("config")
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return nil, err
		}
		r.logger.Debug("loaded config", "path", path)
	} else if cmd.IsSet("config") {
		return nil, fmt.Errorf("%w: config file %s not found", shared.ErrMissingConfig, path)
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	shared.ConfigureLogger(r.logger, config)

	r.config = config
	return config, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlainln("%s", ui.Styles.Title(title))
}
