// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/archsh/archsh/internal/audit"
	"github.com/archsh/archsh/internal/issue"

	"github.com/spf13/cobra"
)

const defaultAuditRecords = 10

func newAuditCommand(app *App) *cobra.Command {
	var count int

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the most recent audit records",
		Long: `Show the most recent records of the audit log as
"timestamp user command", oldest first. Use -n 0 to show every record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			if err := requireSettings(cfg, "log_path"); err != nil {
				return issue.NewErrorContext().
					WithOperation("read audit log").
					WithResource(cfg.Source).
					WithIssue(issue.ConfigMissingSettingsId).
					Wrap(err).
					BuildError()
			}

			records, err := audit.ReadLast(string(cfg.LogPath), count)
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("read audit log").
					WithResource(string(cfg.LogPath)).
					Wrap(err).
					BuildError()
			}
			for _, r := range records {
				fmt.Fprintf(app.stdout, "%s %s %s\n", r.Timestamp, r.User, r.Command)
			}
			return nil
		},
	}
	auditCmd.Flags().IntVarP(&count, "lines", "n", defaultAuditRecords, "number of records to show (0 shows all)")

	return auditCmd
}
