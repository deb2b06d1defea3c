// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/archsh/archsh/internal/emulator"
	"github.com/archsh/archsh/internal/issue"
	"github.com/archsh/archsh/internal/sshserver"
	"github.com/archsh/archsh/pkg/fspath"
	"github.com/archsh/archsh/pkg/types"

	"github.com/spf13/cobra"
)

func newServeCommand(app *App) *cobra.Command {
	var (
		host string
		port int
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shell over SSH",
		Long: `Serve the interactive shell over SSH to the configured user.

One session is served at a time; a second connection is refused while a
session is open. The archive is indexed once at startup and shared by every
session. The host key is generated at ssh.host_key_path when missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := app.loadConfig(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.SSH.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.SSH.Port = types.ListenPort(port)
			}
			if err := cfg.Validate(); err != nil {
				return issue.NewErrorContext().
					WithOperation("start SSH server").
					WithResource(cfg.Source).
					WithIssue(issue.ConfigMissingSettingsId).
					Wrap(err).
					BuildError()
			}

			idx, err := emulator.LoadIndex(ctx, cfg)
			if err != nil {
				return err
			}
			hostKey, err := fspath.Abs(cfg.SSH.HostKeyPath)
			if err != nil {
				return err
			}

			logger := app.logger()
			factory := func(sessCtx context.Context) (sshserver.Session, error) {
				return app.newEmulator(sessCtx, cfg, emulator.WithIndex(idx))
			}
			srv, err := sshserver.New(sshserver.Config{
				Host:        sshserver.HostAddress(cfg.SSH.Host),
				Port:        cfg.SSH.Port,
				HostKeyPath: hostKey,
				Username:    cfg.Username,
			}, factory, sshserver.WithLogger(logger.WithPrefix("ssh-server")))
			if err != nil {
				return err
			}

			if err := srv.Start(ctx); err != nil {
				return issue.NewErrorContext().
					WithOperation("start SSH server").
					WithResource(fmt.Sprintf("%s:%d", cfg.SSH.Host, cfg.SSH.Port)).
					WithIssue(issue.SSHServerStartFailedId).
					WithSuggestion("Pick a free port with --port or ssh.port").
					Wrap(err).
					BuildError()
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Listening on"), CmdStyle.Render(srv.Address()))
			fmt.Fprintf(app.stdout, "Connect with: ssh -p %d %s@%s\n", srv.Port(), cfg.Username, cfg.SSH.Host)
			logger.Debug("host key", "path", hostKey)

			var runErr error
			select {
			case <-ctx.Done():
			case err, ok := <-srv.Err():
				if ok {
					runErr = err
				}
			}
			if err := srv.Stop(); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}
	serveCmd.Flags().StringVar(&host, "host", "", "address to bind (overrides ssh.host)")
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides ssh.port; 0 picks a free port)")

	return serveCmd
}
