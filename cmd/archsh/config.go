// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/archsh/archsh/internal/config"
	"github.com/archsh/archsh/pkg/fspath"
	"github.com/archsh/archsh/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `archsh config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage archsh configuration",
		Long: `Manage archsh configuration.

Configuration is read from, in order:
  - the file given with --config
  - Linux: ~/.config/archsh/config.toml
  - macOS: ~/Library/Application Support/archsh/config.toml
  - Windows: %APPDATA%\archsh\config.toml
  - ./config.toml

Every setting can be overridden with an ARCHSH_* environment variable,
for example ARCHSH_LOG_PATH or ARCHSH_ARCHIVE_READ_TIMEOUT.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	var printOnly bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file template",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(app, printOnly)
		},
	}
	initCmd.Flags().BoolVar(&printOnly, "print", false, "print the template instead of writing it")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath(app)
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	source := cfg.Source
	if source == "" {
		source = "(defaults and environment only)"
	}
	fmt.Fprintf(app.stdout, "# %s: %s\n", "source", source)

	content, err := config.GenerateTOML(cfg)
	if err != nil {
		return err
	}
	_, err = app.stdout.Write(content)
	return err
}

func initConfig(app *App, printOnly bool) error {
	path := app.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}

	cfg := config.DefaultConfig()
	cfg.SSH.HostKeyPath = fspath.JoinStr(fspath.Dir(types.FilesystemPath(path)), config.DefaultHostKeyFile)
	if printOnly {
		content, err := config.GenerateTOML(cfg)
		if err != nil {
			return err
		}
		_, err = app.stdout.Write(content)
		return err
	}

	created, err := config.CreateDefaultConfig(path, cfg)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(app.stdout, "Configuration already exists at %s\n", CmdStyle.Render(path))
		return nil
	}
	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), CmdStyle.Render(path))
	fmt.Fprintln(app.stdout, "Set username, hostname, filesystem_path and log_path before starting the shell.")
	return nil
}

func showConfigPath(app *App) error {
	if app.configPath != "" {
		fmt.Fprintln(app.stdout, app.configPath)
		return nil
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintln(app.stdout, path)
	return nil
}
