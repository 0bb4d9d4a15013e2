package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/giantswarm/linkedin-mcp/pkg/logging"
)

// FlowState is a state of the authorization state machine.
type FlowState string

const (
	StateIdle             FlowState = "Idle"
	StateAwaitingCallback FlowState = "AwaitingCallback"
	StateExchangingCode   FlowState = "ExchangingCode"
	StateFetchingIdentity FlowState = "FetchingIdentity"
	StatePersisted        FlowState = "Persisted"

	StateCredentialsMissing  FlowState = "CredentialsMissing"
	StateAuthorizationDenied FlowState = "AuthorizationDenied"
	StateNoAuthorizationCode FlowState = "NoAuthorizationCode"
	StateStateMismatch       FlowState = "StateMismatch"
	StateCallbackTimeout     FlowState = "CallbackTimeout"
	StateExchangeFailed      FlowState = "ExchangeFailed"

	// StateFailed covers local failures outside the provider protocol:
	// port already bound, storage errors, cancellation.
	StateFailed FlowState = "Failed"
)

// IsTerminal reports whether no further transition happens from s.
func (s FlowState) IsTerminal() bool {
	switch s {
	case StateIdle, StateAwaitingCallback, StateExchangingCode, StateFetchingIdentity:
		return false
	default:
		return true
	}
}

// IdentityFetcher resolves the member behind a freshly issued access token.
type IdentityFetcher interface {
	FetchIdentity(ctx context.Context, accessToken string) (*UserInfo, error)
}

// IdentityFetcherFunc adapts a function to IdentityFetcher.
type IdentityFetcherFunc func(ctx context.Context, accessToken string) (*UserInfo, error)

// FetchIdentity calls f.
func (f IdentityFetcherFunc) FetchIdentity(ctx context.Context, accessToken string) (*UserInfo, error) {
	return f(ctx, accessToken)
}

// FlowConfig wires a Flow.
type FlowConfig struct {
	Credentials *CredentialStore
	Tokens      *TokenStore

	// Identity is optional. Failures are logged and leave the identity
	// fields of the record empty.
	Identity IdentityFetcher

	AuthURL  string
	TokenURL string
	Scopes   []string

	// HTTPClient is used for the code exchange.
	HTTPClient *http.Client

	// CallbackTimeout bounds the wait for the browser redirect.
	CallbackTimeout time.Duration

	// OpenBrowser is launched fire-and-forget with the authorization URL.
	// Nil disables the launch.
	OpenBrowser func(url string) error

	// OnAuthURL receives the authorization URL as soon as the listener is
	// bound, so callers can print it for manual use.
	OnAuthURL func(url string)

	// Now overrides time.Now, for tests.
	Now func() time.Time
}

// Flow runs the authorization-code flow. One Run at a time per Flow.
type Flow struct {
	cfg FlowConfig

	mu      sync.Mutex
	state   FlowState
	running bool
}

// NewFlow returns a Flow in StateIdle.
func NewFlow(cfg FlowConfig) *Flow {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.CallbackTimeout <= 0 {
		cfg.CallbackTimeout = 10 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Flow{cfg: cfg, state: StateIdle}
}

// State returns the current state.
func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) transition(to FlowState) {
	f.mu.Lock()
	from := f.state
	f.state = to
	f.mu.Unlock()
	logging.Debug("AuthFlow", "%s -> %s", from, to)
}

// Run performs one complete authorization and returns the persisted record.
// The callback listener is released before Run returns on every path.
func (f *Flow) Run(ctx context.Context) (*TokenRecord, error) {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return nil, ErrFlowInProgress
	}
	f.running = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.running = false
		f.mu.Unlock()
	}()

	f.transition(StateIdle)

	creds, err := f.cfg.Credentials.Load()
	if err != nil {
		if errors.Is(err, ErrCredentialsMissing) {
			f.transition(StateCredentialsMissing)
		} else {
			f.transition(StateFailed)
		}
		return nil, err
	}

	target, err := ParseRedirect(creds.RedirectURI)
	if err != nil {
		f.transition(StateFailed)
		return nil, err
	}

	state, err := GenerateState()
	if err != nil {
		f.transition(StateFailed)
		return nil, err
	}

	oauthConfig := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  target.URI,
		Scopes:       f.cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   f.cfg.AuthURL,
			TokenURL:  f.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	authURL := oauthConfig.AuthCodeURL(state)

	listener := NewCallbackListener(target.Addr, target.Path, state)
	if err := listener.Start(ctx); err != nil {
		f.transition(StateFailed)
		return nil, err
	}
	defer listener.Stop()

	f.transition(StateAwaitingCallback)
	logging.Info("AuthFlow", "Waiting for OAuth callback on %s%s", listener.Addr(), target.Path)

	if f.cfg.OnAuthURL != nil {
		f.cfg.OnAuthURL(authURL)
	}
	if f.cfg.OpenBrowser != nil {
		open := f.cfg.OpenBrowser
		go func() {
			if err := open(authURL); err != nil {
				logging.Warn("AuthFlow", "Could not open browser, open the URL manually: %v", err)
			}
		}()
	}

	code, err := f.awaitCode(ctx, listener)
	// The port is free again before the exchange starts.
	listener.Stop()
	if err != nil {
		return nil, err
	}

	f.transition(StateExchangingCode)
	issuedAt := f.cfg.Now()
	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, f.cfg.HTTPClient)
	token, err := oauthConfig.Exchange(exchangeCtx, code)
	if err != nil {
		f.transition(StateExchangeFailed)
		exchangeErr := newExchangeError(err)
		logging.Warn("AuthFlow", "OAuth token exchange failed: %v", exchangeErr)
		return nil, exchangeErr
	}

	record := recordFromToken(token, issuedAt)

	f.transition(StateFetchingIdentity)
	if f.cfg.Identity != nil {
		info, err := f.cfg.Identity.FetchIdentity(ctx, record.AccessToken)
		switch {
		case err != nil:
			logging.Warn("AuthFlow", "Identity unavailable, continuing without it: %v", err)
		case info != nil:
			record.Sub, record.Name, record.Email = info.Sub, info.Name, info.Email
		}
	}

	if err := f.cfg.Tokens.Save(record); err != nil {
		f.transition(StateFailed)
		return nil, err
	}

	f.transition(StatePersisted)
	logging.Info("AuthFlow", "Authenticated, token valid until %s", record.Expiry().Format(time.RFC3339))
	return record, nil
}

// awaitCode waits for the callback and maps its outcome to a terminal state
// on failure.
func (f *Flow) awaitCode(ctx context.Context, listener *CallbackListener) (string, error) {
	waitCtx, cancel := context.WithTimeout(ctx, f.cfg.CallbackTimeout)
	defer cancel()

	result, err := listener.Wait(waitCtx)
	if err == nil {
		return result.Code, nil
	}

	var denied *AuthorizationDeniedError
	switch {
	case errors.As(err, &denied):
		f.transition(StateAuthorizationDenied)
		logging.Warn("AuthFlow", "OAuth authorization failed: %v", err)
	case errors.Is(err, ErrStateMismatch):
		f.transition(StateStateMismatch)
	case errors.Is(err, ErrNoAuthorizationCode):
		f.transition(StateNoAuthorizationCode)
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		f.transition(StateCallbackTimeout)
		return "", fmt.Errorf("%w after %s", ErrCallbackTimeout, f.cfg.CallbackTimeout)
	default:
		f.transition(StateFailed)
	}
	return "", err
}

func newExchangeError(err error) *ExchangeError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return &ExchangeError{StatusCode: status, Body: string(retrieveErr.Body), Err: err}
	}
	return &ExchangeError{Err: err}
}

// recordFromToken builds the record from the exchange response. expires_in
// comes from the raw response; the transport's parsed expiry is a fallback.
func recordFromToken(token *oauth2.Token, issuedAt time.Time) *TokenRecord {
	expiresIn := rawInt(token.Extra("expires_in"))
	if expiresIn <= 0 && !token.Expiry.IsZero() {
		expiresIn = int64(token.Expiry.Sub(issuedAt).Round(time.Second) / time.Second)
	}
	if expiresIn < 0 {
		expiresIn = 0
	}

	record := NewTokenRecord(token.AccessToken, expiresIn, issuedAt)
	record.TokenType = token.TokenType
	if scope, ok := token.Extra("scope").(string); ok {
		record.Scope = scope
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		record.IDToken = idToken
	}
	return record
}

func rawInt(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	default:
		return 0
	}
}
