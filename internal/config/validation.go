package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value interface{}) {
	*ve = append(*ve, ValidationError{Field: field, Value: value, Message: message})
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks the fields that cannot be defaulted. All problems are
// reported at once.
func (c Config) Validate() error {
	var errs ValidationErrors

	validateHTTPURL(&errs, "linkedin.authURL", c.LinkedIn.AuthURL)
	validateHTTPURL(&errs, "linkedin.tokenURL", c.LinkedIn.TokenURL)
	validateHTTPURL(&errs, "linkedin.apiBaseURL", c.LinkedIn.APIBaseURL)

	if !isAPIVersion(c.LinkedIn.APIVersion) {
		errs.Add("linkedin.apiVersion", "must be a yyyymm month such as "+DefaultAPIVersion, c.LinkedIn.APIVersion)
	}
	for i, scope := range c.LinkedIn.Scopes {
		if strings.TrimSpace(scope) == "" || strings.ContainsAny(scope, " ,") {
			errs.Add(fmt.Sprintf("linkedin.scopes[%d]", i), "must be a single scope name", scope)
		}
	}
	if c.LogLevel != "" && !oneOf(strings.ToLower(c.LogLevel), logLevels) {
		errs.Add("logLevel", "must be one of: "+strings.Join(logLevels, ", "), c.LogLevel)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateHTTPURL(errs *ValidationErrors, field, value string) {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.Add(field, fmt.Sprintf("must be an http(s) URL, got %q", value), value)
	}
}

func isAPIVersion(v string) bool {
	if len(v) != 6 {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
