package client

import (
	"context"
	"net/http"
	"net/url"
)

// Client is the transport the REST wrappers are written against.
// HTTPClient is the production implementation.
type Client interface {
	Do(ctx context.Context, req *Request) (*Payload, error)
	Get(ctx context.Context, path string, query url.Values, out any) (*Payload, error)
	Post(ctx context.Context, path string, in, out any) (*Payload, error)
	Put(ctx context.Context, path string, in, out any) (*Payload, error)
	Delete(ctx context.Context, path string, out any) (*Payload, error)
}

// TokenStore is the persisted credential slots the adapter reads and
// updates. An empty access token means "send anonymously".
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
	SetAccessToken(ctx context.Context, token string) error
	RefreshToken(ctx context.Context) (string, error)
	SetRefreshToken(ctx context.Context, token string) error
}

// Request describes one call relative to the client's base URL. Body, when
// non-nil, is sent as JSON.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}
