package session

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/watchstore/internal/client/client"
	"github.com/dmitrijs2005/watchstore/internal/client/repositories/kv"
	"github.com/dmitrijs2005/watchstore/internal/common"
)

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db), db
}

var _ client.TokenStore = (*Store)(nil)

func TestAccessToken_AbsentIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tok, err := s.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
	assert.False(t, s.Authenticated(ctx))
}

func TestAccessToken_SetAndClear(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetAccessToken(ctx, "A1"))
	tok, err := s.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A1", tok)
	assert.True(t, s.Authenticated(ctx))

	require.NoError(t, s.SetAccessToken(ctx, ""))
	tok, err = s.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestRefreshCookie_Policy(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.SetRefreshToken(ctx, "R1"))

	c, err := s.RefreshCookie(ctx)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, common.RefreshCookieName, c.Name)
	assert.Equal(t, "R1", c.Value)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.True(t, c.Expires.Equal(now.Add(7*24*time.Hour)))
}

func TestRefreshToken_ExpiredReadsAsAbsent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.SetRefreshToken(ctx, "R1"))

	now = now.Add(RefreshTTL - time.Second)
	tok, err := s.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "R1", tok)

	now = now.Add(time.Second)
	tok, err = s.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestRefreshToken_GarbageRecordReadsAsAbsent(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, kv.NewSQLiteRepository(db).Set(ctx, common.RefreshTokenKey, []byte("R-raw")))

	tok, err := s.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestSaveLoginAndClear(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, kv.SetJSON(ctx, kv.NewSQLiteRepository(db), common.GuestCartKey, []string{"p1"}))
	require.NoError(t, s.SaveLogin(ctx, "A1", "R1"))

	access, err := s.AccessToken(ctx)
	require.NoError(t, err)
	refresh, err := s.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A1", access)
	assert.Equal(t, "R1", refresh)

	require.NoError(t, s.Clear(ctx))

	access, _ = s.AccessToken(ctx)
	refresh, _ = s.RefreshToken(ctx)
	assert.Empty(t, access)
	assert.Empty(t, refresh)

	v, err := kv.NewSQLiteRepository(db).Get(ctx, common.GuestCartKey)
	require.NoError(t, err)
	assert.NotNil(t, v, "guest cart survives a logout")
}

func TestSaveLogin_WithoutRefreshKeepsPrevious(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetRefreshToken(ctx, "R0"))
	require.NoError(t, s.SaveLogin(ctx, "A1", ""))

	refresh, err := s.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "R0", refresh)
}

func TestClaims(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	c, err := s.Claims(ctx)
	require.NoError(t, err)
	assert.Nil(t, c)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u-1",
		"email": "ann@example.com",
		"roles": []string{"USER"},
		"exp":   exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	require.NoError(t, s.SetAccessToken(ctx, token))

	c, err = s.Claims(ctx)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "u-1", c.Subject)
	assert.Equal(t, "ann@example.com", c.Email)
	assert.Equal(t, []string{"USER"}, c.Roles)
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.False(t, c.Expired(time.Now()))
	assert.True(t, c.Expired(exp))
}

func TestClaims_OpaqueToken(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetAccessToken(ctx, "opaque"))

	_, err := s.Claims(ctx)
	require.ErrorIs(t, err, ErrOpaqueToken)
}
