package controller

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/netfabric/fabricctl/internal/logging"
	"github.com/netfabric/fabricctl/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout. Some controller
	// inventory calls are slow on large deployments.
	DefaultTimeout = 5 * time.Minute

	// DefaultVersion is the API version used when a request does not name one
	DefaultVersion = "v1"

	// AuthVersion and AuthPath form the token endpoint
	AuthVersion = "system/v1"
	AuthPath    = "auth/token"

	// TokenHeader carries the session token on every call after Login
	TokenHeader = "X-Auth-Token"

	// RequestIDHeader carries a per-request id for correlating controller logs
	RequestIDHeader = "X-Request-Id"
)

// Client represents an authenticated REST session with a network controller
type Client struct {
	// BaseURL is the scheme and host of the controller (e.g., "https://10.0.0.1")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// Header holds headers sent on every request, including the session token
	Header http.Header

	insecure bool
	timeout  time.Duration

	// sleep and now are replaced in tests so task polling runs instantly
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// WithInsecureSkipVerify controls TLS certificate verification. Controllers
// commonly ship self-signed certificates, so verification is off by default.
func WithInsecureSkipVerify(skip bool) ClientOption {
	return func(c *Client) {
		c.insecure = skip
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithClock replaces the sleeper and clock used by WaitOnTask
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) ClientOption {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// NewClient creates a client for the controller at host. Host may be a bare
// name or address, or a URL whose path is ignored. The scheme defaults to https.
func NewClient(host string, opts ...ClientOption) *Client {
	c := &Client{
		BaseURL:  NormalizeBaseURL(host),
		Header:   make(http.Header),
		insecure: true,
		timeout:  DefaultTimeout,
		sleep:    sleepContext,
		now:      time.Now,
	}
	c.Header.Set("Content-Type", "application/json")
	c.Header.Set("User-Agent", version.UserAgent())

	for _, opt := range opts {
		opt(c)
	}

	if c.HTTPClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: c.insecure} // #nosec G402 -- self-signed controller certificates
		c.HTTPClient = &http.Client{Transport: transport}
	}
	c.HTTPClient.Timeout = c.timeout

	return c
}

// NormalizeBaseURL reduces host to scheme://host[:port]
func NormalizeBaseURL(host string) string {
	host = strings.TrimSpace(host)
	scheme := "https"
	if i := strings.Index(host, "://"); i >= 0 {
		if strings.EqualFold(host[:i], "http") {
			scheme = "http"
		}
		host = host[i+3:]
	}
	if i := strings.Index(host, "/"); i >= 0 {
		host = host[:i]
	}
	return scheme + "://" + host
}

// Login exchanges basic credentials for a session token and keeps it for
// every following request
func (c *Client) Login(ctx context.Context, username, password string) error {
	resp, err := c.Request(ctx, http.MethodPost, AuthPath, nil,
		WithVersion(AuthVersion),
		WithBasicAuth(username, password),
	)
	if err != nil {
		return fmt.Errorf("login to %s failed: %w", c.BaseURL, err)
	}

	token := resp.Object().String("Token")
	if token == "" {
		return NewAuthError("token endpoint returned no token")
	}

	c.Header.Set(TokenHeader, token)
	logging.Debug("Logged in to controller")
	return nil
}

// Token returns the current session token, empty before Login
func (c *Client) Token() string {
	return c.Header.Get(TokenHeader)
}

// RequestOption configures a single request
type RequestOption func(*requestOptions)

type requestOptions struct {
	version  string
	params   url.Values
	username string
	password string
	basic    bool
}

// WithVersion selects the API version segment of the URL (e.g. "v2", "system/v1")
func WithVersion(version string) RequestOption {
	return func(o *requestOptions) {
		o.version = version
	}
}

// WithParam adds a query parameter
func WithParam(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.params.Add(key, value)
	}
}

// WithBasicAuth sends HTTP basic credentials with the request
func WithBasicAuth(username, password string) RequestOption {
	return func(o *requestOptions) {
		o.username = username
		o.password = password
		o.basic = true
	}
}

// Response is a decoded controller response
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header

	// Raw is the response body as received
	Raw []byte

	// Body is the decoded JSON value, nil for non-JSON responses
	Body any

	// JSON reports whether the response had a JSON content type
	JSON bool
}

// Object returns the body when it is a JSON object
func (r *Response) Object() Object {
	return asObject(r.Body)
}

// Objects returns the body when it is a JSON array
func (r *Response) Objects() []Object {
	return asObjects(r.Body)
}

// Items returns the "response" array of the controller's result wrapper
func (r *Response) Items() []Object {
	return r.Object().Objects("response")
}

// Result returns the "response" object of the controller's result wrapper
func (r *Response) Result() Object {
	return r.Object().Object("response")
}

// URL builds the endpoint URL for path under the given API version
func (c *Client) URL(path, version string) string {
	if version == "" {
		version = DefaultVersion
	}
	return c.BaseURL + "/api/" + strings.Trim(version, "/") + "/" + strings.Trim(path, "/")
}

// Request sends a request to /api/{version}/{path}. A non-nil body is sent as
// JSON. HTTP statuses from 400 to 599 are returned as *APIError.
func (c *Client) Request(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	o := requestOptions{version: DefaultVersion, params: url.Values{}}
	for _, opt := range opts {
		opt(&o)
	}

	endpoint := c.URL(path, o.version)
	if len(o.params) > 0 {
		endpoint += "?" + o.params.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, NewParseError("failed to encode request body", err)
		}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, NewNetworkError(fmt.Sprintf("failed to create %s request", method), err)
	}

	for key, values := range c.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if o.basic {
		req.SetBasicAuth(o.username, o.password)
	}

	requestID := uuid.New().String()
	req.Header.Set(RequestIDHeader, requestID)
	logging.LogRequest(requestID, method, endpoint, payload)

	start := c.now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		classified := ClassifyNetworkError(err, c.BaseURL)
		classified.Message = fmt.Sprintf("%s %s failed: %s", method, endpoint, classified.Message)
		return nil, classified
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	contentType := resp.Header.Get("Content-Type")
	logging.LogResponse(requestID, resp.StatusCode, contentType, raw, c.now().Sub(start))

	result := &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Raw:        raw,
	}

	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		if failed(resp.StatusCode) {
			return nil, httpError(resp, endpoint, "")
		}
		return result, nil
	}

	result.JSON = true
	if len(bytes.TrimSpace(raw)) > 0 {
		result.Body, err = DecodeBytes(raw)
		if err != nil {
			if failed(resp.StatusCode) {
				return nil, httpError(resp, endpoint, "")
			}
			return nil, NewParseError(fmt.Sprintf("invalid JSON from %s", endpoint), err)
		}
	}

	if failed(resp.StatusCode) {
		reason := result.Result().Flatten(": ", "errorCode", "message", "detail")
		return nil, httpError(resp, endpoint, reason)
	}

	return result, nil
}

// Get sends a GET request
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, opts...)
}

// Post sends a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, body, opts...)
}

// Put sends a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, body, opts...)
}

// Delete sends a DELETE request
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, opts...)
}

func failed(status int) bool {
	return status >= 400 && status < 600
}

// httpError builds the error for a failed status. The controller's own reason
// is preferred over the status line.
func httpError(resp *http.Response, endpoint, reason string) *APIError {
	if reason == "" {
		reason = fmt.Sprintf("%s for url: %s", resp.Status, endpoint)
	}
	return NewHTTPError(resp.StatusCode, reason)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
