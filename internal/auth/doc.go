// Package auth implements the LinkedIn OAuth2 authorization-code flow for
// linkedin-mcp.
//
// # Components
//
//   - CredentialStore reads the registered application (client_id,
//     client_secret, redirect_uri) from a local record. It never writes.
//   - TokenStore loads and saves the single access-token record and answers
//     expiry questions. LinkedIn issues long-lived tokens without a refresh
//     grant, so an expired record simply means "log in again".
//   - CallbackListener is a one-shot local HTTP endpoint bound to the host
//     and port of the redirect URI. It captures exactly one redirect.
//   - Flow is the state machine tying these together:
//
//	Idle -> AwaitingCallback -> ExchangingCode -> FetchingIdentity -> Persisted
//
// with terminal failures CredentialsMissing, AuthorizationDenied,
// NoAuthorizationCode, StateMismatch, CallbackTimeout and ExchangeFailed.
//
// # Token Storage
//
// Records are flat JSON objects and default to:
//
//	~/.config/linkedin-mcp/credentials.json
//	~/.config/linkedin-mcp/token.json
//
// The token record keeps expires_at in milliseconds since the epoch. It is
// computed once at exchange time and never recomputed.
//
// # Usage
//
//	flow := auth.NewFlow(auth.FlowConfig{
//	    Credentials: auth.NewCredentialStore(storage.NewFileRecord(credPath)),
//	    Tokens:      tokens,
//	    AuthURL:     cfg.LinkedIn.AuthURL,
//	    TokenURL:    cfg.LinkedIn.TokenURL,
//	    Scopes:      cfg.LinkedIn.Scopes,
//	    OpenBrowser: auth.OpenBrowser,
//	})
//	record, err := flow.Run(ctx)
package auth
