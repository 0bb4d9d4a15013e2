package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:      "non-http auth URL",
			modify:    func(c *Config) { c.LinkedIn.AuthURL = "ftp://example.com/auth" },
			wantField: "linkedin.authURL",
		},
		{
			name:      "token URL without host",
			modify:    func(c *Config) { c.LinkedIn.TokenURL = "https://" },
			wantField: "linkedin.tokenURL",
		},
		{
			name:      "api version not yyyymm",
			modify:    func(c *Config) { c.LinkedIn.APIVersion = "2025-01" },
			wantField: "linkedin.apiVersion",
		},
		{
			name:      "scope with separator",
			modify:    func(c *Config) { c.LinkedIn.Scopes = []string{"openid", "profile email"} },
			wantField: "linkedin.scopes[1]",
		},
		{
			name:      "unknown log level",
			modify:    func(c *Config) { c.LogLevel = "verbose" },
			wantField: "logLevel",
		},
		{
			name:   "log level is case-insensitive",
			modify: func(c *Config) { c.LogLevel = "DEBUG" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var errs ValidationErrors
			require.True(t, errors.As(err, &errs), "expected ValidationErrors, got %v", err)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantField, errs[0].Field)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.LinkedIn.AuthURL = "nope"
	cfg.LinkedIn.APIVersion = "latest"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "linkedin.authURL")
	assert.Contains(t, err.Error(), "linkedin.apiVersion")
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "bad", ValidationError{Message: "bad"}.Error())
	assert.Equal(t, "field 'x': bad", ValidationError{Field: "x", Message: "bad"}.Error())
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}
