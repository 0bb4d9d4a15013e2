package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/giantswarm/linkedin-mcp/internal/storage"
)

// DefaultRedirectURI is used when the credentials record has no redirect_uri.
// It must match a redirect URL registered for the LinkedIn application.
const DefaultRedirectURI = "http://localhost:3000/callback"

// Credentials is the registered LinkedIn application.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
}

// CredentialStore loads Credentials. It is read-only.
type CredentialStore struct {
	record storage.Record
}

// NewCredentialStore returns a store reading from record.
func NewCredentialStore(record storage.Record) *CredentialStore {
	return &CredentialStore{record: record}
}

// Location returns where the credentials are expected.
func (s *CredentialStore) Location() string {
	return s.record.Location()
}

// Load reads and validates the credentials record. A missing or incomplete
// record yields a *CredentialsMissingError.
func (s *CredentialStore) Load() (*Credentials, error) {
	data, err := s.record.Get()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &CredentialsMissingError{Location: s.record.Location()}
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials at %s: %w", s.record.Location(), err)
	}

	var missing []string
	if creds.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if creds.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if len(missing) > 0 {
		return nil, &CredentialsMissingError{
			Location: s.record.Location(),
			Reason:   "missing " + strings.Join(missing, ", "),
		}
	}

	return &creds, nil
}

// RedirectTarget is what the callback listener binds to.
type RedirectTarget struct {
	// URI is the full redirect URI sent to the provider.
	URI string
	// Addr is host:port to listen on.
	Addr string
	// Path is the callback path to match.
	Path string
}

// ParseRedirect derives the listener address and path from a redirect URI.
// An empty URI means DefaultRedirectURI.
func ParseRedirect(redirectURI string) (*RedirectTarget, error) {
	if redirectURI == "" {
		redirectURI = DefaultRedirectURI
	}

	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect_uri %q: %w", redirectURI, err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("redirect_uri %q must use http on a local address", redirectURI)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("redirect_uri %q has no host", redirectURI)
	}
	port := u.Port()
	if port == "" {
		port = "80"
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	return &RedirectTarget{
		URI:  redirectURI,
		Addr: net.JoinHostPort(host, port),
		Path: path,
	}, nil
}
