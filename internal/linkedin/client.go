package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultBaseURL is the LinkedIn API host.
	DefaultBaseURL = "https://api.linkedin.com"

	// DefaultAPIVersion is sent as LinkedIn-Version on /rest calls.
	DefaultAPIVersion = "202501"

	// DefaultHTTPTimeout bounds every request.
	DefaultHTTPTimeout = 30 * time.Second

	restliProtocolVersion = "2.0.0"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
)

// TokenSource supplies the bearer token. It returns an error when no valid
// token is available.
type TokenSource interface {
	AccessToken() (string, error)
}

// Client calls the LinkedIn API on behalf of the member whose token the
// TokenSource holds. It is safe for concurrent use.
type Client struct {
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	apiVersion string

	identityMu    sync.RWMutex
	identity      *MemberIdentity
	identityToken string
	identityGroup singleflight.Group
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithAPIVersion sets the LinkedIn-Version header value (YYYYMM).
func WithAPIVersion(version string) ClientOption {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// NewClient creates a client reading tokens from tokens.
func NewClient(tokens TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		tokens:     tokens,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		logger:     slog.Default(),
		baseURL:    DefaultBaseURL,
		apiVersion: DefaultAPIVersion,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// apiGeneration selects the headers a request carries.
type apiGeneration int

const (
	// versioned /rest API: LinkedIn-Version plus Rest.li protocol header.
	generationREST apiGeneration = iota
	// legacy /v2 Rest.li resources: protocol header only.
	generationRestli
	// plain JSON endpoints such as /v2/userinfo.
	generationPlain
)

// request describes one candidate call.
type request struct {
	method     string
	path       string
	query      url.Values
	body       interface{}
	generation apiGeneration
}

// response is what mappers see.
type response struct {
	status int
	header http.Header
	body   []byte
}

func (r *response) decode(v interface{}) error {
	if len(bytes.TrimSpace(r.body)) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (r *response) success() bool {
	return r.status >= 200 && r.status < 300
}

// do sends req with the bearer token. Non-2xx responses are returned, not
// turned into errors.
func (c *Client) do(ctx context.Context, token string, req request) (*response, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + encodeQuery(req.query)
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	switch req.generation {
	case generationREST:
		httpReq.Header.Set("LinkedIn-Version", c.apiVersion)
		httpReq.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)
	case generationRestli:
		httpReq.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// encodeQuery is url.Values.Encode with Rest.li 2.0 collection syntax left
// intact: List(...) delimiters stay literal, URN colons stay escaped.
func encodeQuery(q url.Values) string {
	return restliDelimiters.Replace(q.Encode())
}

var restliDelimiters = strings.NewReplacer("%28", "(", "%29", ")", "%2C", ",")
