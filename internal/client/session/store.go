// Package session keeps the two persisted credential slots of a signed-in
// user: the bearer access token and the refresh-token cookie.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/watchstore/internal/client/repositories/kv"
	"github.com/dmitrijs2005/watchstore/internal/common"
	"github.com/dmitrijs2005/watchstore/internal/dbx"
)

// RefreshTTL is how long a stored refresh cookie stays usable.
const RefreshTTL = 7 * 24 * time.Hour

// Store is the durable session. It satisfies client.TokenStore, so every
// HTTPClient of a session reads and refreshes through the same slots.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) repo(db dbx.DBTX) kv.Repository {
	return kv.NewSQLiteRepository(db)
}

// AccessToken returns the stored token, or "" when signed out.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	b, err := s.repo(s.db).Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SetAccessToken stores token; an empty token removes the slot.
func (s *Store) SetAccessToken(ctx context.Context, token string) error {
	return setAccess(ctx, s.repo(s.db), token)
}

// RefreshToken returns the refresh cookie's value, or "" when it is absent
// or expired.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	c, err := s.RefreshCookie(ctx)
	if err != nil || c == nil {
		return "", err
	}
	return c.Value, nil
}

// SetRefreshToken stores value as a fresh cookie valid for RefreshTTL.
func (s *Store) SetRefreshToken(ctx context.Context, value string) error {
	return s.setRefresh(ctx, s.repo(s.db), value)
}

// RefreshCookie returns the stored refresh cookie. Expired or unreadable
// records read as nil.
func (s *Store) RefreshCookie(ctx context.Context) (*http.Cookie, error) {
	var rec cookieRecord
	found, err := kv.GetJSON(ctx, s.repo(s.db), common.RefreshTokenKey, &rec)
	if !found {
		return nil, err
	}
	if err != nil || rec.Value == "" {
		return nil, nil
	}
	if !rec.Expires.IsZero() && !s.now().Before(rec.Expires) {
		return nil, nil
	}
	return rec.cookie(), nil
}

// SaveLogin stores both tokens of a fresh login in one transaction.
func (s *Store) SaveLogin(ctx context.Context, accessToken, refreshToken string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := setAccess(ctx, r, accessToken); err != nil {
			return err
		}
		if refreshToken == "" {
			return nil
		}
		return s.setRefresh(ctx, r, refreshToken)
	})
}

// Clear removes both credentials. The guest cart is left alone.
func (s *Store) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Delete(ctx, common.AccessTokenKey); err != nil {
			return err
		}
		return r.Delete(ctx, common.RefreshTokenKey)
	})
}

// Authenticated reports whether an access token is present.
func (s *Store) Authenticated(ctx context.Context) bool {
	t, err := s.AccessToken(ctx)
	return err == nil && t != ""
}

func setAccess(ctx context.Context, r kv.Repository, token string) error {
	if token == "" {
		return r.Delete(ctx, common.AccessTokenKey)
	}
	return r.Set(ctx, common.AccessTokenKey, []byte(token))
}

func (s *Store) setRefresh(ctx context.Context, r kv.Repository, value string) error {
	if value == "" {
		return r.Delete(ctx, common.RefreshTokenKey)
	}
	rec := cookieRecord{
		Name:     common.RefreshCookieName,
		Value:    value,
		Path:     "/",
		Expires:  s.now().Add(RefreshTTL).UTC(),
		Secure:   true,
		HttpOnly: true,
		SameSite: "Strict",
	}
	return kv.SetJSON(ctx, r, common.RefreshTokenKey, rec)
}

// cookieRecord is the persisted form of the refresh cookie.
type cookieRecord struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	HttpOnly bool      `json:"httpOnly"`
	SameSite string    `json:"sameSite"`
}

func (r cookieRecord) cookie() *http.Cookie {
	c := &http.Cookie{
		Name:     r.Name,
		Value:    r.Value,
		Path:     r.Path,
		Expires:  r.Expires,
		Secure:   r.Secure,
		HttpOnly: r.HttpOnly,
	}
	if r.SameSite == "Strict" {
		c.SameSite = http.SameSiteStrictMode
	}
	return c
}

/*************
 * token claims
 *************/

// Claims is what the client shows about the signed-in user. It is read
// from the access token without verifying the signature; the backends do
// the verifying.
type Claims struct {
	Subject   string
	Email     string
	Name      string
	Roles     []string
	ExpiresAt time.Time
}

// ErrOpaqueToken is returned by Claims when the access token is not a JWT.
var ErrOpaqueToken = errors.New("access token is not a JWT")

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"`
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// Claims decodes the stored access token. A signed-out store returns
// (nil, nil).
func (s *Store) Claims(ctx context.Context) (*Claims, error) {
	token, err := s.AccessToken(ctx)
	if err != nil || token == "" {
		return nil, err
	}
	return ParseClaims(token)
}

func ParseClaims(token string) (*Claims, error) {
	var tc tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}
	c := &Claims{
		Subject: tc.Subject,
		Email:   tc.Email,
		Name:    tc.Name,
		Roles:   tc.Roles,
	}
	if c.Email == "" {
		c.Email = tc.Subject
	}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time
	}
	return c, nil
}

// Expired reports whether the token claims an expiry in the past.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
