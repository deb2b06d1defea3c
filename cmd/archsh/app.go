// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/archsh/archsh/internal/audit"
	"github.com/archsh/archsh/internal/config"
	"github.com/archsh/archsh/internal/emulator"
	"github.com/archsh/archsh/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App reference.
	App struct {
		Config ConfigProvider
		clock  audit.Clock
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		// Global flag values, bound by newRootCommand.
		configPath string
		verbose    bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Clock overrides audit timestamps; nil uses the system clock.
		Clock  audit.Clock
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		clock:  deps.Clock,
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfig loads the configuration selected by --config. A config file may
// turn on verbose output when the flag was not given.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.configPath)})
	if err != nil {
		return nil, err
	}
	if !a.verbose {
		a.verbose = cfg.UI.Verbose
	}
	return cfg, nil
}

// logger returns the diagnostic logger on stderr. Diagnostics stay quiet
// unless verbose output is enabled.
func (a *App) logger() *log.Logger {
	level := log.WarnLevel
	if a.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix:          "archsh",
		Level:           level,
		ReportTimestamp: a.verbose,
	})
}

// newEmulator starts a shell session for cfg.
func (a *App) newEmulator(ctx context.Context, cfg *config.Config, opts ...emulator.Option) (*emulator.Emulator, error) {
	opts = append([]emulator.Option{emulator.WithLogger(a.logger())}, opts...)
	if a.clock != nil {
		opts = append(opts, emulator.WithClock(a.clock))
	}
	return emulator.New(ctx, cfg, opts...)
}

// requireSettings fails with a *config.MissingSettingsError naming every
// blank field among the ones a command needs.
func requireSettings(cfg *config.Config, fields ...string) error {
	values := map[string]string{
		"username":        cfg.Username,
		"hostname":        cfg.Hostname,
		"filesystem_path": string(cfg.FilesystemPath),
		"log_path":        string(cfg.LogPath),
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(values[f]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &config.MissingSettingsError{Fields: missing}
	}
	return nil
}
