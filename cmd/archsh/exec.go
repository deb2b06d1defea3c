// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/archsh/archsh/internal/tui"

	"github.com/spf13/cobra"
)

func newExecCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "exec -- <line>...",
		Short: "Run command lines in one session and print their output",
		Long: `Run each argument as one shell command line, in order, within a single
session. The output of each line is printed on its own. Execution stops at
'exit'.

Example:
  archsh exec -- ls "cd Home/docs" ls "tail notes.txt"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := app.loadConfig(ctx)
			if err != nil {
				return err
			}
			emu, err := app.newEmulator(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = emu.Close() }() //nolint:errcheck // session close is best-effort

			return tui.RunLines(ctx, emu, args, app.stdout)
		},
	}
}
