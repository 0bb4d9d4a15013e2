package linkedin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) AccessToken() (string, error) {
	return s.token, s.err
}

type recordedRequest struct {
	Method   string
	Path     string
	RawPath  string
	RawQuery string
	Header   http.Header
	Body     map[string]interface{}
}

// fakeAPI routes "METHOD /path" to handlers and records every request.
// Unrouted requests get 404.
type fakeAPI struct {
	t        *testing.T
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	api := &fakeAPI{t: t, routes: map[string]http.HandlerFunc{}}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return api, server
}

func (a *fakeAPI) handle(route string, h http.HandlerFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[route] = h
}

func (a *fakeAPI) json(route string, status int, body string) {
	a.handle(route, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (a *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{Method: r.Method, Path: r.URL.Path, RawPath: r.URL.EscapedPath(), RawQuery: r.URL.RawQuery, Header: r.Header.Clone()}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		if err := json.Unmarshal(data, &rec.Body); err != nil {
			a.t.Errorf("request body is not JSON: %v", err)
		}
	}

	a.mu.Lock()
	a.requests = append(a.requests, rec)
	h, ok := a.routes[r.Method+" "+r.URL.Path]
	a.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status":404,"message":"not found"}`)
		return
	}
	h(w, r)
}

func (a *fakeAPI) calls(route string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, r := range a.requests {
		if r.Method+" "+r.Path == route {
			n++
		}
	}
	return n
}

func (a *fakeAPI) last(route string) recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.requests) - 1; i >= 0; i-- {
		if r := a.requests[i]; r.Method+" "+r.Path == route {
			return r
		}
	}
	a.t.Fatalf("no request to %s", route)
	return recordedRequest{}
}

func (a *fakeAPI) total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests)
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	return NewClient(staticTokens{token: "test-token"},
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithAPIVersion("202501"),
	)
}

// withMember routes /rest/me to a fixed member.
func (a *fakeAPI) withMember() {
	a.json("GET /rest/me", http.StatusOK, `{"sub":"abc123","name":"Ada Lovelace","email":"ada@example.com"}`)
}

var errNoToken = errors.New("not authenticated")

func requireNoRequests(t *testing.T, api *fakeAPI) {
	t.Helper()
	require.Zero(t, api.total(), "no request may be sent without a token")
}
