// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"

	"github.com/archsh/archsh/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

func newShellCommand(app *App) *cobra.Command {
	var plain bool

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Long: `Start the interactive shell over the configured archive.

Every line is echoed after the prompt (user@host: ) and followed by its
output. When stdin is not a terminal, or with --plain, lines are read from
stdin and the session ends at end of input or at 'exit'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), app, plain)
		},
	}
	shellCmd.Flags().BoolVar(&plain, "plain", false, "read commands line by line from stdin without the full-screen UI")

	return shellCmd
}

func runShell(ctx context.Context, app *App, plain bool) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	emu, err := app.newEmulator(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = emu.Close() }() //nolint:errcheck // session close is best-effort

	if plain || !isTerminal(app.stdin) {
		return tui.RunPlain(ctx, emu, app.stdin, app.stdout)
	}
	return tui.RunShell(ctx, emu, tui.ShellOptions{Title: "archsh " + cfg.Hostname},
		tea.WithInput(app.stdin), tea.WithOutput(app.stdout))
}

// isTerminal reports whether r is a file attached to a terminal.
func isTerminal(r any) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
