package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialsMissing matches any *CredentialsMissingError.
	ErrCredentialsMissing = errors.New("LinkedIn application credentials missing")

	// ErrNoAuthorizationCode is returned when the callback carried neither
	// a code nor an error.
	ErrNoAuthorizationCode = errors.New("callback did not include an authorization code")

	// ErrStateMismatch is returned when the callback state does not echo the
	// value generated for this flow.
	ErrStateMismatch = errors.New("state mismatch - possible CSRF attack")

	// ErrCallbackTimeout is returned when nobody completes the browser step
	// within the configured callback timeout.
	ErrCallbackTimeout = errors.New("timed out waiting for OAuth callback")

	// ErrFlowInProgress is returned by Run when another Run on the same Flow
	// has not finished.
	ErrFlowInProgress = errors.New("authorization flow already in progress")

	// ErrNotAuthenticated is returned when no token record exists.
	ErrNotAuthenticated = errors.New("not authenticated, run `linkedin-mcp auth login`")

	// ErrTokenExpired is returned when the token record exists but has expired.
	ErrTokenExpired = errors.New("access token expired, run `linkedin-mcp auth login`")
)

// CredentialsMissingError names the record the user has to create.
type CredentialsMissingError struct {
	Location string
	Reason   string
}

func (e *CredentialsMissingError) Error() string {
	msg := fmt.Sprintf("LinkedIn application credentials not found at %s", e.Location)
	if e.Reason != "" {
		msg = fmt.Sprintf("LinkedIn application credentials at %s are incomplete: %s", e.Location, e.Reason)
	}
	return msg + `. Create it with {"client_id": "...", "client_secret": "...", "redirect_uri": "` + DefaultRedirectURI + `"}`
}

// Is lets errors.Is(err, ErrCredentialsMissing) match.
func (e *CredentialsMissingError) Is(target error) bool {
	return target == ErrCredentialsMissing
}

// AuthorizationDeniedError is returned when the provider redirects back with
// an error parameter, typically access_denied.
type AuthorizationDeniedError struct {
	Code        string
	Description string
}

func (e *AuthorizationDeniedError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization denied: %s - %s", e.Code, e.Description)
	}
	return "authorization denied: " + e.Code
}

// ExchangeError is returned when the token endpoint rejects the code.
// Body is the provider response, verbatim.
type ExchangeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ExchangeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("token exchange failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("token exchange failed: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}
