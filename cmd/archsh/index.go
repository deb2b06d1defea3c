// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/archsh/archsh/internal/emulator"
	"github.com/archsh/archsh/internal/issue"

	"github.com/spf13/cobra"
)

func newIndexCommand(app *App) *cobra.Command {
	var showFormat bool

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "List every entry of the archive",
		Long:  "List every entry of the configured archive, one per line, in archive order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := app.loadConfig(ctx)
			if err != nil {
				return err
			}
			if err := requireSettings(cfg, "filesystem_path"); err != nil {
				return issue.NewErrorContext().
					WithOperation("list archive").
					WithResource(cfg.Source).
					WithIssue(issue.ConfigMissingSettingsId).
					Wrap(err).
					BuildError()
			}

			idx, err := emulator.LoadIndex(ctx, cfg)
			if err != nil {
				return err
			}
			if showFormat {
				fmt.Fprintf(app.stdout, "# %s (%s, %d entries)\n", idx.Path(), idx.Format(), idx.Len())
			}
			for _, name := range idx.Entries() {
				fmt.Fprintln(app.stdout, name)
			}
			return nil
		},
	}
	indexCmd.Flags().BoolVar(&showFormat, "format", false, "print a header with the detected archive format")

	return indexCmd
}
