package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/giantswarm/linkedin-mcp/internal/cli"
	"github.com/giantswarm/linkedin-mcp/internal/config"
	"github.com/giantswarm/linkedin-mcp/pkg/logging"
)

// appVersion is injected by main at build time.
var appVersion = "dev"

// SetVersion sets the version reported by the CLI and the MCP server.
func SetVersion(v string) {
	appVersion = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return appVersion
}

// newRootCmd builds the command tree. Each call returns an independent tree
// with its own flag values.
func newRootCmd() *cobra.Command {
	flags := &cli.CommandFlags{}

	rootCmd := &cobra.Command{
		Use:   "linkedin-mcp",
		Short: "Use LinkedIn from the terminal and from AI assistants",
		Long: `linkedin-mcp signs in to LinkedIn with OAuth and exposes your profile,
posts and network to the command line and, through "serve", to MCP clients
such as Claude Desktop or Cursor.

Create ~/.config/linkedin-mcp/credentials.json with the client_id and
client_secret of your LinkedIn application, then run:

  linkedin-mcp auth login`,
		Version: appVersion,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.LevelInfo
			if flags.Debug {
				level = logging.LevelDebug
			}
			logging.InitForCLI(level, cmd.ErrOrStderr())
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "linkedin-mcp version %s\n" .Version}}`)

	cli.RegisterCommonFlags(rootCmd, flags, defaultConfigPath())

	rootCmd.AddCommand(
		newAuthCmd(flags),
		newWhoamiCmd(flags),
		newProfileCmd(flags),
		newPostCmd(flags),
		newArticleCmd(flags),
		newPostsCmd(flags),
		newDeleteCmd(flags),
		newConnectionsCmd(flags),
		newServeCmd(flags),
		newVersionCmd(),
		newSelfUpdateCmd(),
	)

	return rootCmd
}

// Execute runs the CLI and exits with a code scripts can rely on:
// 2 when no valid token is stored, 3 when the login flow failed, 1 otherwise.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}

func defaultConfigPath() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		return ""
	}
	return path
}
