package cmd

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/giantswarm/linkedin-mcp/internal/auth"
	"github.com/giantswarm/linkedin-mcp/internal/cli"
	"github.com/giantswarm/linkedin-mcp/internal/config"
	"github.com/giantswarm/linkedin-mcp/internal/linkedin"
	"github.com/giantswarm/linkedin-mcp/internal/storage"
	"github.com/giantswarm/linkedin-mcp/pkg/logging"
)

// app is what a command needs after configuration is loaded.
type app struct {
	cfg         config.Config
	flags       *cli.CommandFlags
	credentials *auth.CredentialStore
	tokens      *auth.TokenStore
	httpClient  *http.Client
	client      *linkedin.Client
	printer     *cli.Printer
}

func newApp(cmd *cobra.Command, flags *cli.CommandFlags) (*app, error) {
	format, err := flags.Format()
	if err != nil {
		return nil, err
	}
	if flags.ConfigPath == "" {
		return nil, errors.New("could not determine the configuration directory, pass --config-path")
	}

	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if !flags.Debug && cfg.LogLevel != "" {
		logging.InitForCLI(logging.ParseLevel(cfg.LogLevel), cmd.ErrOrStderr())
	}

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	tokens := auth.NewTokenStore(storage.NewFileRecord(cfg.TokenFile))

	return &app{
		cfg:         cfg,
		flags:       flags,
		credentials: auth.NewCredentialStore(storage.NewFileRecord(cfg.CredentialsFile)),
		tokens:      tokens,
		httpClient:  httpClient,
		client: linkedin.NewClient(tokens,
			linkedin.WithBaseURL(cfg.LinkedIn.APIBaseURL),
			linkedin.WithAPIVersion(cfg.LinkedIn.APIVersion),
			linkedin.WithHTTPClient(httpClient),
			linkedin.WithLogger(logging.Logger().With("subsystem", "LinkedIn")),
		),
		printer: cli.NewPrinter(cmd.OutOrStdout(), format),
	}, nil
}

// fail converts token and flow errors to the CLI error types.
func (a *app) fail(err error) error {
	return cli.ClassifyAuthError(err, a.tokens.Location())
}

// softFailureOutput is the structured form of a degraded read.
type softFailureOutput struct {
	Success bool `json:"success"`
	*linkedin.SoftFailure
}

// printSoftFailure reports a read-only operation that found no working
// endpoint. It is not an error: the command exits 0.
func (a *app) printSoftFailure(f *linkedin.SoftFailure) error {
	if handled, err := a.printer.Structured(softFailureOutput{SoftFailure: f}); handled {
		return err
	}
	a.printer.Warning("%s", f.String())
	if f.Details != "" {
		a.printer.Warning("LinkedIn said: %s", f.Details)
	}
	return nil
}
