package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/giantswarm/linkedin-mcp/internal/auth"
	"github.com/giantswarm/linkedin-mcp/internal/cli"
	"github.com/giantswarm/linkedin-mcp/internal/mcpserver"
	"github.com/giantswarm/linkedin-mcp/pkg/logging"
)

func newServeCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the LinkedIn tools to an MCP client over stdio",
		Long: `Runs an MCP server on stdin/stdout exposing the LinkedIn tools:
get_profile, create_post, create_article_post, list_posts, delete_post and
get_connection_count.

Logs go to stderr. The token file is watched, so signing in again with
"linkedin-mcp auth login" takes effect without restarting the server.

Example Claude Desktop entry:

  "mcpServers": {
    "linkedin": { "command": "linkedin-mcp", "args": ["serve"] }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			watcher := auth.NewTokenWatcher(a.tokens, a.cfg.TokenFile, func() {
				logging.Info("Serve", "Token file %s changed, reloading", a.cfg.TokenFile)
			})
			if err := watcher.Start(); err != nil {
				// Without the watcher a new login needs a restart.
				logging.Warn("Serve", "Token file watching disabled: %v", err)
			}
			defer watcher.Stop()

			if !a.tokens.IsAuthenticated() {
				logging.Warn("Serve", "No valid token in %s, tools will ask to run 'linkedin-mcp auth login'", a.tokens.Location())
			}

			logging.Info("Serve", "Serving LinkedIn MCP tools on stdio (version %s)", appVersion)
			return mcpserver.New(a.client, appVersion).ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
