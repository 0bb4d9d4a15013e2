package config

import "time"

// Config is the top-level configuration structure for linkedin-mcp.
type Config struct {
	// CredentialsFile is the JSON record holding client_id/client_secret/redirect_uri.
	// Relative paths are resolved against the config directory.
	CredentialsFile string `yaml:"credentialsFile,omitempty"`

	// TokenFile is the JSON record written after a successful login.
	TokenFile string `yaml:"tokenFile,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty"`

	LinkedIn LinkedInConfig `yaml:"linkedin"`
	Auth     AuthConfig     `yaml:"auth"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// LinkedInConfig holds provider endpoints. Overridable for testing against
// a local mock.
type LinkedInConfig struct {
	AuthURL    string   `yaml:"authURL,omitempty"`
	TokenURL   string   `yaml:"tokenURL,omitempty"`
	APIBaseURL string   `yaml:"apiBaseURL,omitempty"`
	APIVersion string   `yaml:"apiVersion,omitempty"` // LinkedIn-Version header, yyyymm
	Scopes     []string `yaml:"scopes,omitempty"`
}

// AuthConfig controls the interactive authorization flow.
type AuthConfig struct {
	CallbackTimeout time.Duration `yaml:"callbackTimeout,omitempty"`
	OpenBrowser     bool          `yaml:"openBrowser"`
}

// HTTPConfig controls outbound HTTP calls.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
