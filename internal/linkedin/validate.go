package linkedin

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Limits callers enforce before calling the client. The client itself does
// not re-check them.
const (
	MaxPostLength = 3000
	MaxListCount  = 100
)

// ValidatePostText checks that text is non-empty and at most MaxPostLength
// characters.
func ValidatePostText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("post text must not be empty")
	}
	if n := utf8.RuneCountInString(text); n > MaxPostLength {
		return fmt.Errorf("post text is %d characters, the maximum is %d", n, MaxPostLength)
	}
	return nil
}

// ValidateArticleURL checks that raw is an absolute http(s) URL.
func ValidateArticleURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid article URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("article URL %q must start with http:// or https://", raw)
	}
	return nil
}

// ParseVisibility returns the canonical visibility for v. Empty means
// PUBLIC; matching is case-insensitive.
func ParseVisibility(v string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "", VisibilityPublic:
		return VisibilityPublic, nil
	case VisibilityConnections:
		return VisibilityConnections, nil
	case VisibilityLoggedIn:
		return VisibilityLoggedIn, nil
	default:
		return "", fmt.Errorf("visibility must be one of %s, %s, %s; got %q",
			VisibilityPublic, VisibilityConnections, VisibilityLoggedIn, v)
	}
}

// ClampCount bounds a list size to 1..MaxListCount; zero or negative means
// DefaultListCount.
func ClampCount(n int) int {
	switch {
	case n <= 0:
		return DefaultListCount
	case n > MaxListCount:
		return MaxListCount
	default:
		return n
	}
}
