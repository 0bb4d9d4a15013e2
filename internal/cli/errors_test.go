package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/giantswarm/linkedin-mcp/internal/auth"
)

func TestClassifyAuthError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "nil", err: nil, wantCode: ExitCodeSuccess},
		{name: "not authenticated", err: auth.ErrNotAuthenticated, wantCode: ExitCodeAuthRequired},
		{name: "wrapped expired", err: fmt.Errorf("profile: %w", auth.ErrTokenExpired), wantCode: ExitCodeAuthRequired},
		{name: "denied", err: &auth.AuthorizationDeniedError{Code: "access_denied"}, wantCode: ExitCodeAuthFailed},
		{name: "exchange", err: &auth.ExchangeError{StatusCode: 400, Body: "invalid_grant"}, wantCode: ExitCodeAuthFailed},
		{name: "state mismatch", err: auth.ErrStateMismatch, wantCode: ExitCodeAuthFailed},
		{name: "no code", err: auth.ErrNoAuthorizationCode, wantCode: ExitCodeAuthFailed},
		{name: "timeout", err: fmt.Errorf("%w after 10m0s", auth.ErrCallbackTimeout), wantCode: ExitCodeAuthFailed},
		{name: "credentials missing", err: &auth.CredentialsMissingError{Location: "/x/credentials.json"}, wantCode: ExitCodeError},
		{name: "other", err: errors.New("boom"), wantCode: ExitCodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifyAuthError(tt.err, "/x/token.json")
			assert.Equal(t, tt.wantCode, ExitCode(classified))
		})
	}
}

func TestClassifyAuthError_KeepsCause(t *testing.T) {
	cause := &auth.AuthorizationDeniedError{Code: "access_denied", Description: "user cancelled"}
	err := ClassifyAuthError(cause, "")

	var denied *auth.AuthorizationDeniedError
	assert.True(t, errors.As(err, &denied))
	assert.Contains(t, err.Error(), "user cancelled")
	assert.Contains(t, err.Error(), "linkedin-mcp auth login")
}

func TestAuthErrorMessages(t *testing.T) {
	required := &AuthRequiredError{Location: "/home/u/.config/linkedin-mcp/token.json"}
	assert.Contains(t, required.Error(), "/home/u/.config/linkedin-mcp/token.json")
	assert.Contains(t, required.Error(), "linkedin-mcp auth login")

	expired := &AuthExpiredError{Location: "token.json"}
	assert.Contains(t, expired.Error(), "expired")

	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", required), &AuthRequiredError{}))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", expired), &AuthExpiredError{}))
	assert.False(t, errors.Is(required, &AuthExpiredError{}))
}

func TestExitCode_WrappedCLIErrors(t *testing.T) {
	assert.Equal(t, ExitCodeAuthRequired, ExitCode(fmt.Errorf("cmd: %w", &AuthRequiredError{})))
	assert.Equal(t, ExitCodeAuthFailed, ExitCode(fmt.Errorf("cmd: %w", &AuthFailedError{Reason: errors.New("x")})))
}
