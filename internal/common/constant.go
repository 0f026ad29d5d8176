// Package common contains shared constants and sentinel errors used across
// the storefront client.
package common

// Header names the client sends or reads.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	IdempotencyKeyHeader    = "Idempotency-Key"
	BearerPrefix            = "Bearer "
)

// Keys of the persisted client slots in the local metadata store.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
	GuestCartKey    = "carts"
)

// RefreshCookieName is the cookie that carries the refresh token to /auth/refresh.
const RefreshCookieName = "refreshToken"
