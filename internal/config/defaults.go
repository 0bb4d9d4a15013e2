package config

import "time"

const (
	// DefaultAuthURL is LinkedIn's OAuth2 authorization endpoint.
	DefaultAuthURL = "https://www.linkedin.com/oauth/v2/authorization"

	// DefaultTokenURL is LinkedIn's OAuth2 token endpoint.
	//nolint:gosec // endpoint URL, not a credential
	DefaultTokenURL = "https://www.linkedin.com/oauth/v2/accessToken"

	// DefaultAPIBaseURL is the API host serving /rest and /v2 endpoints.
	DefaultAPIBaseURL = "https://api.linkedin.com"

	// DefaultAPIVersion is sent as the LinkedIn-Version header on /rest calls.
	DefaultAPIVersion = "202501"

	DefaultCredentialsFile = "credentials.json"
	DefaultTokenFile       = "token.json"

	DefaultCallbackTimeout = 10 * time.Minute
	DefaultHTTPTimeout     = 30 * time.Second
)

// DefaultScopes are requested on every authorization.
var DefaultScopes = []string{"openid", "profile", "email", "w_member_social"}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() Config {
	return Config{
		CredentialsFile: DefaultCredentialsFile,
		TokenFile:       DefaultTokenFile,
		LogLevel:        "info",
		LinkedIn: LinkedInConfig{
			AuthURL:    DefaultAuthURL,
			TokenURL:   DefaultTokenURL,
			APIBaseURL: DefaultAPIBaseURL,
			APIVersion: DefaultAPIVersion,
			Scopes:     append([]string(nil), DefaultScopes...),
		},
		Auth: AuthConfig{
			CallbackTimeout: DefaultCallbackTimeout,
			OpenBrowser:     true,
		},
		HTTP: HTTPConfig{
			Timeout: DefaultHTTPTimeout,
		},
	}
}
