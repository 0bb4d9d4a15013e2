package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/giantswarm/linkedin-mcp/internal/storage"
	"github.com/giantswarm/linkedin-mcp/pkg/logging"
)

// TokenRecord is the persisted access token. Field names are part of the
// on-disk format and must not change.
type TokenRecord struct {
	AccessToken string `json:"access_token"`

	// ExpiresIn is the lifetime in seconds reported by the provider.
	ExpiresIn int64 `json:"expires_in"`

	// ExpiresAt is issued_at + expires_in*1000, in milliseconds since the epoch.
	ExpiresAt int64 `json:"expires_at"`

	Scope     string `json:"scope,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	IDToken   string `json:"id_token,omitempty"`

	Sub   string `json:"sub,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// NewTokenRecord computes ExpiresAt from issuedAt. This is the only place
// the expiry is derived.
func NewTokenRecord(accessToken string, expiresIn int64, issuedAt time.Time) *TokenRecord {
	return &TokenRecord{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
		ExpiresAt:   issuedAt.UnixMilli() + expiresIn*1000,
	}
}

// ValidAt reports whether the token is unexpired at now.
func (t *TokenRecord) ValidAt(now time.Time) bool {
	return t != nil && now.UnixMilli() < t.ExpiresAt
}

// Expiry returns ExpiresAt as a time.
func (t *TokenRecord) Expiry() time.Time {
	return time.UnixMilli(t.ExpiresAt)
}

// UserInfo is the identity cached in the token record.
type UserInfo struct {
	Sub   string `json:"sub,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// TokenStore loads and saves the single token record.
//
// SECURITY: token values are never logged. Audit lines carry only the
// location, scope and expiry.
type TokenStore struct {
	mu     sync.RWMutex
	record storage.Record
	cached *TokenRecord
	loaded bool
	now    func() time.Time
}

// TokenStoreOption configures a TokenStore.
type TokenStoreOption func(*TokenStore)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) TokenStoreOption {
	return func(s *TokenStore) {
		s.now = now
	}
}

// NewTokenStore returns a store backed by record.
func NewTokenStore(record storage.Record, opts ...TokenStoreOption) *TokenStore {
	s := &TokenStore{
		record: record,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns where the token record lives.
func (s *TokenStore) Location() string {
	return s.record.Location()
}

// Load returns a copy of the token record, or nil when none was saved.
// The record is read from storage once and kept until Save or Invalidate.
func (s *TokenStore) Load() (*TokenRecord, error) {
	s.mu.RLock()
	if s.loaded {
		rec := copyRecord(s.cached)
		s.mu.RUnlock()
		return rec, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return copyRecord(s.cached), nil
	}

	data, err := s.record.Get()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.cached, s.loaded = nil, true
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load token record: %w", err)
	}

	var rec TokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse token record at %s: %w", s.record.Location(), err)
	}

	s.cached, s.loaded = &rec, true
	return copyRecord(&rec), nil
}

// Save overwrites the token record.
func (s *TokenStore) Save(rec *TokenRecord) error {
	if rec == nil {
		return errors.New("cannot save nil token record")
	}
	if rec.AccessToken == "" {
		return errors.New("cannot save token record without access_token")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.record.Set(data); err != nil {
		slog.Warn("SECURITY_AUDIT: OAuth token storage failed",
			"event", "token_store_failed",
			"location", s.record.Location(),
			"error", err.Error(),
		)
		return fmt.Errorf("failed to persist token: %w", err)
	}

	s.cached, s.loaded = copyRecord(rec), true

	slog.Info("SECURITY_AUDIT: OAuth token stored",
		"event", "token_stored",
		"location", s.record.Location(),
		"scope", rec.Scope,
		"expiry", rec.Expiry().Format(time.RFC3339),
		"has_identity", rec.Sub != "",
	)
	return nil
}

// Invalidate drops the in-memory copy; the next Load re-reads storage.
func (s *TokenStore) Invalidate() {
	s.mu.Lock()
	s.cached, s.loaded = nil, false
	s.mu.Unlock()
}

// IsAuthenticated reports whether a record exists and is unexpired.
func (s *TokenStore) IsAuthenticated() bool {
	rec, err := s.Load()
	if err != nil {
		return false
	}
	return rec.ValidAt(s.now())
}

// AccessToken returns the stored access token. It returns ErrNotAuthenticated
// without a record and ErrTokenExpired for an expired one.
func (s *TokenStore) AccessToken() (string, error) {
	rec, err := s.Load()
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", ErrNotAuthenticated
	}
	if !rec.ValidAt(s.now()) {
		logging.Warn("TokenStore", "Access token in %s expired at %s",
			s.record.Location(), rec.Expiry().Format(time.RFC3339))
		return "", ErrTokenExpired
	}
	return rec.AccessToken, nil
}

// UserInfo projects the cached identity, or nil without a record.
func (s *TokenStore) UserInfo() *UserInfo {
	rec, err := s.Load()
	if err != nil || rec == nil {
		return nil
	}
	return &UserInfo{Sub: rec.Sub, Name: rec.Name, Email: rec.Email}
}

func copyRecord(rec *TokenRecord) *TokenRecord {
	if rec == nil {
		return nil
	}
	c := *rec
	return &c
}
