// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/archsh/archsh/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree bound to app. Running archsh with no
// subcommand starts the interactive shell.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "archsh",
		Short: "A read-only shell over an archive",
		Long: TitleStyle.Render("archsh") + SubtitleStyle.Render(" - a read-only shell over an archive") + `

archsh presents the entries of a tar, tar.gz, tar.zst or zip archive as a
small filesystem. Every command is recorded in a JSON-lines audit log.

` + SubtitleStyle.Render("Commands inside the shell:") + `
  ls              List the entries directly under the current directory
  cd <name>       Change to an entry of the archive
  tail <name>     Print the last 10 lines of a file entry
  echo <text>     Print the arguments
  exit            Leave the shell

` + SubtitleStyle.Render("Examples:") + `
  archsh                    Start the interactive shell
  archsh shell --plain      Read commands from stdin
  archsh exec -- ls "cd Home/docs" ls
  archsh serve              Serve the shell over SSH
  archsh config init        Create a configuration file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), app, false)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/archsh/config.toml)")

	rootCmd.AddCommand(
		newShellCommand(app),
		newExecCommand(app),
		newIndexCommand(app),
		newAuditCommand(app),
		newServeCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int {
	return Run(context.Background(), NewApp(Dependencies{}), os.Args[1:])
}

// Run executes the command tree with args and returns the exit code.
func Run(ctx context.Context, app *App, args []string) int {
	rootCmd := newRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	)
	if err == nil {
		return 0
	}
	if app.verbose {
		renderIssuePage(app.stderr, err)
	}
	return exitCodeFor(err)
}

// handleError prints command errors unwrapped, with suggestions, and with
// the cause chain in verbose mode.
func (a *App) handleError(w io.Writer, _ fang.Styles, err error) {
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, a.verbose))
}

// renderIssuePage prints the catalog page linked from an ActionableError.
func renderIssuePage(w io.Writer, err error) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Issue == 0 {
		return
	}
	page := issue.Get(ae.Issue)
	if page == nil {
		return
	}
	style := "notty"
	if isTerminal(w) {
		style = "dark"
	}
	rendered, renderErr := page.Render(style)
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
