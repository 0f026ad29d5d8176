package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrijs2005/watchstore/internal/common"
	"github.com/dmitrijs2005/watchstore/internal/logging"
)

const defaultRefreshPath = "/auth/refresh"

// HTTPClient talks JSON to one backend. It attaches the current access
// token to every request and, on a 401, refreshes the token once through
// the shared Refresher and replays the request a single time.
//
// HTTPClient never clears the session on its own: a 401 that survives the
// refresh cycle is returned to the caller, which decides what logging out
// means.
type HTTPClient struct {
	baseURL    string
	refreshURL string
	http       *http.Client
	tokens     TokenStore
	refresher  *Refresher
	log        logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every round trip. Zero keeps the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithLogger sets the logger; the default drops everything.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithRefreshURL points token refreshes at an absolute URL instead of
// <baseURL>/auth/refresh.
func WithRefreshURL(u string) Option {
	return func(c *HTTPClient) { c.refreshURL = u }
}

// New builds a client for baseURL. A nil refresher gets a private one,
// which is only correct when this is the session's sole client.
func New(baseURL string, tokens TokenStore, refresher *Refresher, opts ...Option) *HTTPClient {
	base := strings.TrimSuffix(baseURL, "/")
	if refresher == nil {
		refresher = NewRefresher()
	}
	c := &HTTPClient{
		baseURL:    base,
		refreshURL: base + defaultRefreshPath,
		http:       &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		tokens:     tokens,
		refresher:  refresher,
		log:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("backend", base)
	return c
}

// BaseURL returns the backend root this client is bound to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// response is a fully read HTTP response.
type response struct {
	statusCode int
	header     http.Header
	cookies    []*http.Cookie
	body       []byte
}

func (c *HTTPClient) Do(ctx context.Context, r *Request) (*Payload, error) {
	body, err := encodeBody(r.Body)
	if err != nil {
		return nil, err
	}

	target, err := c.resolve(r.Path, r.Query)
	if err != nil {
		return nil, err
	}

	token := c.accessToken(ctx)

	resp, err := c.send(ctx, r.Method, target, r.Header, body, token)
	if err != nil {
		return nil, err
	}
	if resp.statusCode != http.StatusUnauthorized {
		return c.unwrap(r.Method, target, resp)
	}

	fresh, err := c.refresher.Refresh(ctx, c.tokens, token, c.refresh)
	if err != nil || fresh == "" {
		c.log.Warn(ctx, "token refresh failed", "method", r.Method, "url", target, "error", err)
		return nil, statusError(r.Method, target, resp)
	}

	c.log.Debug(ctx, "retrying with refreshed token", "method", r.Method, "url", target)
	retry, err := c.send(ctx, r.Method, target, r.Header, body, fresh)
	if err != nil {
		return nil, err
	}
	return c.unwrap(r.Method, target, retry)
}

func (c *HTTPClient) Get(ctx context.Context, path string, query url.Values, out any) (*Payload, error) {
	return c.call(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *HTTPClient) Post(ctx context.Context, path string, in, out any) (*Payload, error) {
	return c.call(ctx, &Request{Method: http.MethodPost, Path: path, Body: in}, out)
}

func (c *HTTPClient) Put(ctx context.Context, path string, in, out any) (*Payload, error) {
	return c.call(ctx, &Request{Method: http.MethodPut, Path: path, Body: in}, out)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, out any) (*Payload, error) {
	return c.call(ctx, &Request{Method: http.MethodDelete, Path: path}, out)
}

// call runs Do and decodes whatever payload came back into out, failed or
// not; the caller checks Payload.Failed.
func (c *HTTPClient) call(ctx context.Context, r *Request, out any) (*Payload, error) {
	p, err := c.Do(ctx, r)
	if err != nil {
		return nil, err
	}
	if err := p.Decode(out); err != nil {
		if p.Failed() {
			// Error bodies need not match the success shape.
			return p, nil
		}
		return p, fmt.Errorf("decode %s %s: %w", r.Method, r.Path, err)
	}
	return p, nil
}

func (c *HTTPClient) accessToken(ctx context.Context) string {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		c.log.Warn(ctx, "access token unreadable, sending anonymously", "error", err)
		return ""
	}
	return token
}

func (c *HTTPClient) resolve(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL + "/" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("bad request path %q: %w", path, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func (c *HTTPClient) send(ctx context.Context, method, target string, header http.Header, body []byte, token string) (*response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	requestID := header.Get(common.RequestIDHeaderName)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = logging.WithRequestID(ctx, requestID)

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	return c.roundTrip(req)
}

func (c *HTTPClient) roundTrip(req *http.Request) (*response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(req.Context(), "request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, req.Method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %v", ErrUnavailable, req.Method, req.URL.Redacted(), err)
	}

	c.log.Debug(req.Context(), "request done",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	return &response{
		statusCode: resp.StatusCode,
		header:     resp.Header,
		cookies:    resp.Cookies(),
		body:       b,
	}, nil
}

// unwrap turns a final response into the caller-facing result.
func (c *HTTPClient) unwrap(method, target string, resp *response) (*Payload, error) {
	p := &Payload{
		StatusCode: resp.statusCode,
		Data:       resp.body,
		Header:     resp.header,
		Cookies:    resp.cookies,
	}
	if !p.Failed() {
		return p, nil
	}
	if resp.statusCode == http.StatusUnauthorized || !isJSON(resp.body) {
		return nil, statusError(method, target, resp)
	}
	return p, nil
}

func statusError(method, target string, resp *response) *StatusError {
	return &StatusError{Method: method, URL: target, StatusCode: resp.statusCode, Body: resp.body}
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refresh exchanges the refresh cookie for a new access token. It talks to
// the transport directly so a 401 here can never recurse into another
// refresh.
func (c *HTTPClient) refresh(ctx context.Context) (string, error) {
	refreshToken, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	if refreshToken == "" {
		return "", fmt.Errorf("%w: no refresh token", ErrRefreshFailed)
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(logging.WithRequestID(ctx, requestID), http.MethodPost, c.refreshURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.AddCookie(&http.Cookie{Name: common.RefreshCookieName, Value: refreshToken})

	resp, err := c.roundTrip(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	if resp.statusCode < 200 || resp.statusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrRefreshFailed, resp.statusCode)
	}

	var body refreshResponse
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrRefreshFailed)
	}

	if err := c.tokens.SetAccessToken(ctx, body.AccessToken); err != nil {
		c.log.Error(ctx, "persisting refreshed access token", "error", err)
	}

	rotated := body.RefreshToken
	for _, ck := range resp.cookies {
		if ck.Name == common.RefreshCookieName && ck.Value != "" {
			rotated = ck.Value
		}
	}
	if rotated != "" && rotated != refreshToken {
		if err := c.tokens.SetRefreshToken(ctx, rotated); err != nil {
			c.log.Error(ctx, "persisting rotated refresh token", "error", err)
		}
	}

	c.log.Info(ctx, "access token refreshed")
	return body.AccessToken, nil
}

func encodeBody(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return b, nil
}

func isJSON(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && json.Valid(b)
}

var _ Client = (*HTTPClient)(nil)

// IsUnauthorized reports whether err means the session is no longer valid.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
