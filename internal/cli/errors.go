package cli

import (
	"errors"
	"fmt"

	"github.com/giantswarm/linkedin-mcp/internal/auth"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates no usable token is stored.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the OAuth flow failed.
	ExitCodeAuthFailed = 3
)

// AuthRequiredError indicates no token is stored.
type AuthRequiredError struct {
	// Location is where the token record was looked up.
	Location string
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf(`Not authenticated (no token at %s)

To authenticate, run:
  linkedin-mcp auth login`, e.Location)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthRequiredError) Is(target error) bool {
	_, ok := target.(*AuthRequiredError)
	return ok
}

// AuthExpiredError indicates the stored token has expired.
type AuthExpiredError struct {
	// Location is where the expired token record lives.
	Location string
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthExpiredError) Error() string {
	return fmt.Sprintf(`Authentication expired (token at %s)

LinkedIn access tokens cannot be refreshed. To re-authenticate, run:
  linkedin-mcp auth login`, e.Location)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthExpiredError) Is(target error) bool {
	_, ok := target.(*AuthExpiredError)
	return ok
}

// AuthFailedError indicates the authorization flow failed.
type AuthFailedError struct {
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthFailedError) Error() string {
	return fmt.Sprintf(`Authentication failed: %v

To retry authentication, run:
  linkedin-mcp auth login`, e.Reason)
}

// Unwrap returns the underlying error.
func (e *AuthFailedError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthFailedError) Is(target error) bool {
	_, ok := target.(*AuthFailedError)
	return ok
}

// ClassifyAuthError converts token and flow errors into the typed CLI errors.
// Other errors, including missing credentials, are returned unchanged.
func ClassifyAuthError(err error, tokenLocation string) error {
	if err == nil {
		return nil
	}

	var denied *auth.AuthorizationDeniedError
	var exchange *auth.ExchangeError
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		return &AuthRequiredError{Location: tokenLocation}
	case errors.Is(err, auth.ErrTokenExpired):
		return &AuthExpiredError{Location: tokenLocation}
	case errors.As(err, &denied),
		errors.As(err, &exchange),
		errors.Is(err, auth.ErrStateMismatch),
		errors.Is(err, auth.ErrNoAuthorizationCode),
		errors.Is(err, auth.ErrCallbackTimeout):
		return &AuthFailedError{Reason: err}
	default:
		return err
	}
}

// ExitCode determines the exit code for an error returned by a command.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var authRequired *AuthRequiredError
	if errors.As(err, &authRequired) {
		return ExitCodeAuthRequired
	}

	var authExpired *AuthExpiredError
	if errors.As(err, &authExpired) {
		return ExitCodeAuthRequired
	}

	var authFailed *AuthFailedError
	if errors.As(err, &authFailed) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}
