package auth

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestListener(t *testing.T, expectedState string) *CallbackListener {
	t.Helper()
	l := NewCallbackListener("127.0.0.1:0", "/callback", expectedState)
	require.NoError(t, l.Start(context.Background()))
	t.Cleanup(l.Stop)
	return l
}

func getCallback(t *testing.T, l *CallbackListener, path string, query url.Values) (int, string) {
	t.Helper()
	u := "http://" + l.Addr() + path
	if query != nil {
		u += "?" + query.Encode()
	}
	resp, err := http.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func waitResult(t *testing.T, l *CallbackListener) (*CallbackResult, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return l.Wait(ctx)
}

func TestCallbackListener_Success(t *testing.T) {
	l := startTestListener(t, "expected-state")

	status, body := getCallback(t, l, "/callback", url.Values{"code": {"auth-code"}, "state": {"expected-state"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Authorization successful")

	result, err := waitResult(t, l)
	require.NoError(t, err)
	assert.Equal(t, "auth-code", result.Code)
	assert.Equal(t, "expected-state", result.State)
	assert.False(t, result.IsError())
}

func TestCallbackListener_ProviderError(t *testing.T) {
	l := startTestListener(t, "s")

	status, body := getCallback(t, l, "/callback", url.Values{
		"error":             {"access_denied"},
		"error_description": {"The user cancelled <script>"},
		"state":             {"s"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "access_denied")
	assert.NotContains(t, body, "<script>", "description must be escaped")

	result, err := waitResult(t, l)
	var denied *AuthorizationDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, "access_denied", denied.Code)
	assert.Equal(t, "The user cancelled <script>", denied.Description)
	assert.True(t, result.IsError())
}

func TestCallbackListener_ErrorTakesPrecedenceOverState(t *testing.T) {
	l := startTestListener(t, "expected")

	getCallback(t, l, "/callback", url.Values{"error": {"access_denied"}, "state": {"other"}})

	_, err := waitResult(t, l)
	var denied *AuthorizationDeniedError
	assert.True(t, errors.As(err, &denied))
}

func TestCallbackListener_MissingCode(t *testing.T) {
	l := startTestListener(t, "")

	status, body := getCallback(t, l, "/callback", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "Missing authorization code")

	_, err := waitResult(t, l)
	assert.ErrorIs(t, err, ErrNoAuthorizationCode)
}

func TestCallbackListener_StateMismatch(t *testing.T) {
	l := startTestListener(t, "expected")

	status, _ := getCallback(t, l, "/callback", url.Values{"code": {"c"}, "state": {"forged"}})
	assert.Equal(t, http.StatusBadRequest, status)

	result, err := waitResult(t, l)
	assert.ErrorIs(t, err, ErrStateMismatch)
	assert.Equal(t, "c", result.Code)
	assert.Empty(t, result.Error)
}

func TestCallbackListener_SecondRequestRejected(t *testing.T) {
	l := startTestListener(t, "")

	status, _ := getCallback(t, l, "/callback", url.Values{"code": {"first"}})
	assert.Equal(t, http.StatusOK, status)

	status, body := getCallback(t, l, "/callback", url.Values{"code": {"second"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "already processed")

	result, err := waitResult(t, l)
	require.NoError(t, err)
	assert.Equal(t, "first", result.Code)
}

func TestCallbackListener_OtherPathsDoNotConsume(t *testing.T) {
	l := startTestListener(t, "")

	status, _ := getCallback(t, l, "/favicon.ico", nil)
	assert.Equal(t, http.StatusNotFound, status)

	resp, err := http.Post("http://"+l.Addr()+"/callback?code=x", "text/plain", strings.NewReader(""))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	status, _ = getCallback(t, l, "/callback", url.Values{"code": {"real"}})
	assert.Equal(t, http.StatusOK, status)

	result, err := waitResult(t, l)
	require.NoError(t, err)
	assert.Equal(t, "real", result.Code)
}

func TestCallbackListener_SecurityHeaders(t *testing.T) {
	l := startTestListener(t, "")

	resp, err := http.Get("http://" + l.Addr() + "/callback?code=c")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestCallbackListener_WaitHonoursContext(t *testing.T) {
	l := startTestListener(t, "")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCallbackListener_PortReleasedAfterStop(t *testing.T) {
	l := NewCallbackListener("127.0.0.1:0", "/callback", "")
	require.NoError(t, l.Start(context.Background()))
	addr := l.Addr()

	l.Stop()
	l.Stop()

	reuse, err := net.Listen("tcp", addr)
	require.NoError(t, err, "port should be free after Stop")
	reuse.Close()
}

func TestCallbackListener_StartFailsWhenPortBusy(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	l := NewCallbackListener(busy.Addr().String(), "/callback", "")
	err = l.Start(context.Background())
	assert.Error(t, err)
	l.Stop()
}
