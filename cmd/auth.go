package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/linkedin-mcp/internal/auth"
	"github.com/giantswarm/linkedin-mcp/internal/cli"
)

// openBrowser launches the system browser. Tests replace it to follow the
// redirect themselves.
var openBrowser = auth.OpenBrowser

func newAuthCmd(flags *cli.CommandFlags) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the LinkedIn sign-in",
		Long: `Sign in to LinkedIn and inspect the stored access token.

The client_id, client_secret and optional redirect_uri of your LinkedIn
application are read from credentials.json in the configuration directory.
After a successful login the access token is written to token.json next to it.`,
	}
	authCmd.AddCommand(newAuthLoginCmd(flags), newAuthStatusCmd(flags))
	return authCmd
}

func newAuthLoginCmd(flags *cli.CommandFlags) *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to LinkedIn in the browser",
		Long: `Runs the OAuth authorization-code flow: starts a one-shot listener on the
redirect URI, opens the LinkedIn consent page and stores the resulting token.

If the browser cannot be opened, copy the printed URL into one manually.`,
		Example: `  linkedin-mcp auth login
  linkedin-mcp auth login --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			return runAuthLogin(cmd, a, !noBrowser && a.cfg.Auth.OpenBrowser)
		},
	}
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Print the authorization URL without opening a browser")
	return cmd
}

func runAuthLogin(cmd *cobra.Command, a *app, launch bool) error {
	stderr := cmd.ErrOrStderr()

	cfg := auth.FlowConfig{
		Credentials: a.credentials,
		Tokens:      a.tokens,
		Identity: auth.IdentityFetcherFunc(func(ctx context.Context, accessToken string) (*auth.UserInfo, error) {
			member, err := a.client.FetchIdentity(ctx, accessToken)
			if err != nil {
				return nil, err
			}
			return &auth.UserInfo{Sub: member.Sub, Name: member.Name, Email: member.Email}, nil
		}),
		AuthURL:         a.cfg.LinkedIn.AuthURL,
		TokenURL:        a.cfg.LinkedIn.TokenURL,
		Scopes:          a.cfg.LinkedIn.Scopes,
		HTTPClient:      a.httpClient,
		CallbackTimeout: a.cfg.Auth.CallbackTimeout,
		OnAuthURL: func(url string) {
			fmt.Fprintf(stderr, "Open this URL to authorize linkedin-mcp:\n\n  %s\n\n", url)
		},
	}
	if launch {
		cfg.OpenBrowser = openBrowser
	}

	var rec *auth.TokenRecord
	err := cli.RunWithSpinner(stderr, a.flags.Quiet, "Waiting for authorization in the browser...", func() error {
		var runErr error
		rec, runErr = auth.NewFlow(cfg).Run(cmd.Context())
		return runErr
	})
	if err != nil {
		return a.fail(err)
	}

	if handled, err := a.printer.Structured(newAuthStatus(a.tokens.Location(), rec, time.Now())); handled {
		return err
	}
	who := rec.Name
	if who == "" {
		who = "LinkedIn member"
	}
	if rec.Email != "" {
		who = fmt.Sprintf("%s <%s>", who, rec.Email)
	}
	a.printer.Success("Signed in as %s", who)
	a.printer.KeyValues([]cli.Field{
		{Key: "Token file", Value: a.tokens.Location()},
		{Key: "Expires", Value: rec.Expiry().Format(time.RFC3339)},
		{Key: "Scope", Value: rec.Scope},
	})
	return nil
}

// authStatus is the structured output of auth status and auth login.
type authStatus struct {
	Authenticated bool   `json:"authenticated"`
	Expired       bool   `json:"expired,omitempty"`
	Location      string `json:"location"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	Scope         string `json:"scope,omitempty"`
	Sub           string `json:"sub,omitempty"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
}

func newAuthStatus(location string, rec *auth.TokenRecord, now time.Time) authStatus {
	status := authStatus{Location: location}
	if rec == nil {
		return status
	}
	status.Authenticated = rec.ValidAt(now)
	status.Expired = !status.Authenticated
	status.ExpiresAt = rec.Expiry().Format(time.RFC3339)
	status.Scope = rec.Scope
	status.Sub = rec.Sub
	status.Name = rec.Name
	status.Email = rec.Email
	return status
}

func newAuthStatusCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a valid LinkedIn token is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			rec, err := a.tokens.Load()
			if err != nil {
				return err
			}

			status := newAuthStatus(a.tokens.Location(), rec, time.Now())
			if handled, err := a.printer.Structured(status); handled {
				return err
			}

			state := "Not authenticated"
			switch {
			case status.Authenticated:
				state = "Authenticated"
			case status.Expired:
				state = "Expired"
			}
			fields := []cli.Field{
				{Key: "Status", Value: state},
				{Key: "Token file", Value: status.Location},
			}
			if rec != nil {
				fields = append(fields,
					cli.Field{Key: "Expires", Value: status.ExpiresAt},
					cli.Field{Key: "Scope", Value: status.Scope},
					cli.Field{Key: "Member", Value: status.Name},
					cli.Field{Key: "Email", Value: status.Email},
				)
			}
			a.printer.KeyValues(fields)
			if !status.Authenticated {
				a.printer.Warning("Run 'linkedin-mcp auth login' to sign in.")
			}
			return nil
		},
	}
}
