package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/watchstore/internal/client/client"
	"github.com/dmitrijs2005/watchstore/internal/client/models"
	"github.com/dmitrijs2005/watchstore/internal/common"
)

type AuthAPI struct {
	c client.Client
}

func NewAuthAPI(c client.Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// Login exchanges credentials for tokens. The refresh token is taken from
// the body or, failing that, from the Set-Cookie header.
func (a *AuthAPI) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	p, err := a.c.Post(ctx, "/auth/login", req, &out)
	if err := check(p, err); err != nil {
		return nil, err
	}
	if out.RefreshToken == "" {
		if ck := p.Cookie(common.RefreshCookieName); ck != nil {
			out.RefreshToken = ck.Value
		}
	}
	return &out, nil
}

func (a *AuthAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var out models.User
	p, err := a.c.Post(ctx, "/auth/register", req, &out)
	if err := check(p, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes refreshToken on the backend.
func (a *AuthAPI) Logout(ctx context.Context, refreshToken string) error {
	h := http.Header{}
	if refreshToken != "" {
		h.Set("Cookie", (&http.Cookie{Name: common.RefreshCookieName, Value: refreshToken}).String())
	}
	p, err := a.c.Do(ctx, &client.Request{Method: http.MethodPost, Path: "/auth/logout", Header: h})
	return check(p, err)
}

func (a *AuthAPI) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	p, err := a.c.Get(ctx, "/auth/me", nil, &out)
	if err := check(p, err); err != nil {
		return nil, err
	}
	return &out, nil
}
