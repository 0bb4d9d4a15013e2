package auth

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/giantswarm/linkedin-mcp/pkg/logging"
)

//go:embed templates/callback_success.html
var callbackSuccessHTML string

//go:embed templates/callback_error.html
var callbackErrorHTML string

var (
	successTemplate = template.Must(template.New("success").Funcs(sprig.HtmlFuncMap()).Parse(callbackSuccessHTML))
	errorTemplate   = template.Must(template.New("error").Funcs(sprig.HtmlFuncMap()).Parse(callbackErrorHTML))
)

// CallbackResult is the query of the captured redirect.
type CallbackResult struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// IsError returns true if the provider redirected back with an error.
func (r *CallbackResult) IsError() bool {
	return r.Error != ""
}

type callbackOutcome struct {
	result *CallbackResult
	err    error
}

// CallbackListener is a temporary local HTTP server that captures exactly one
// OAuth redirect on a fixed path. Requests to other paths get 404 and do not
// consume the one shot; repeat requests to the path get 400 until Stop.
type CallbackListener struct {
	addr          string
	path          string
	expectedState string

	server   *http.Server
	listener net.Listener

	outcomeCh chan callbackOutcome
	errorCh   chan error
	once      sync.Once
	stopOnce  sync.Once
}

// NewCallbackListener prepares a listener for addr (host:port) and path.
// When expectedState is non-empty, callbacks with a different state fail
// with ErrStateMismatch.
func NewCallbackListener(addr, path, expectedState string) *CallbackListener {
	return &CallbackListener{
		addr:          addr,
		path:          path,
		expectedState: expectedState,
		outcomeCh:     make(chan callbackOutcome, 1),
		errorCh:       make(chan error, 1),
	}
}

// Start binds the address and begins serving.
func (l *CallbackListener) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", l.addr)
	if err != nil {
		return fmt.Errorf("failed to start callback server on %s: %w", l.addr, err)
	}
	l.listener = listener

	l.server = &http.Server{
		Handler:           http.HandlerFunc(l.serveHTTP),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := l.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case l.errorCh <- err:
			default:
			}
		}
	}()

	logging.Debug("CallbackListener", "Listening on %s%s", listener.Addr(), l.path)
	return nil
}

// Addr returns the bound address, useful when the configured port was 0.
func (l *CallbackListener) Addr() string {
	if l.listener == nil {
		return l.addr
	}
	return l.listener.Addr().String()
}

// Wait blocks until the callback arrives, the server fails, or ctx is done.
// The returned error classifies the callback: *AuthorizationDeniedError,
// ErrStateMismatch or ErrNoAuthorizationCode.
func (l *CallbackListener) Wait(ctx context.Context) (*CallbackResult, error) {
	select {
	case outcome := <-l.outcomeCh:
		return outcome.result, outcome.err
	case err := <-l.errorCh:
		return nil, fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop shuts the server down and releases the port. Safe to call repeatedly.
func (l *CallbackListener) Stop() {
	l.stopOnce.Do(func() {
		if l.server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = l.server.Shutdown(ctx)
		}
		if l.listener != nil {
			_ = l.listener.Close()
		}
		logging.Debug("CallbackListener", "Released %s", l.addr)
	})
}

func (l *CallbackListener) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != l.path {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	handled := false
	l.once.Do(func() {
		handled = true
		l.processCallback(w, r)
	})
	if !handled {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
	}
}

// processCallback runs exactly once via sync.Once.
func (l *CallbackListener) processCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'unsafe-inline'")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Connection", "close")

	query := r.URL.Query()
	result := &CallbackResult{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}

	var outcomeErr error
	pageError, pageDescription := result.Error, result.ErrorDescription
	switch {
	case result.IsError():
		outcomeErr = &AuthorizationDeniedError{Code: result.Error, Description: result.ErrorDescription}
	case l.expectedState != "" && result.State != l.expectedState:
		logging.Warn("CallbackListener", "OAuth state mismatch (expected %d chars, received %d chars)",
			len(l.expectedState), len(result.State))
		outcomeErr = ErrStateMismatch
		pageError, pageDescription = "invalid_state", "The state parameter does not match this login attempt."
	case result.Code == "":
		outcomeErr = ErrNoAuthorizationCode
		pageError, pageDescription = "invalid_request", "Missing authorization code."
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var err error
	if outcomeErr != nil {
		w.WriteHeader(http.StatusBadRequest)
		err = errorTemplate.Execute(w, map[string]string{
			"Error":       pageError,
			"Description": pageDescription,
		})
	} else {
		w.WriteHeader(http.StatusOK)
		err = successTemplate.Execute(w, nil)
	}
	if err != nil {
		logging.Error("CallbackListener", err, "Failed to render callback page")
	}

	l.outcomeCh <- callbackOutcome{result: result, err: outcomeErr}
}
