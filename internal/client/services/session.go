package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/watchstore/internal/client/models"
	"github.com/dmitrijs2005/watchstore/internal/client/repositories/guestcart"
	"github.com/dmitrijs2005/watchstore/internal/logging"
)

// AuthRemote is the users backend. api.AuthAPI implements it.
type AuthRemote interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context) (*models.User, error)
}

// Credentials is the durable session. session.Store implements it.
type Credentials interface {
	SaveLogin(ctx context.Context, accessToken, refreshToken string) error
	RefreshToken(ctx context.Context) (string, error)
	Authenticated(ctx context.Context) bool
	Clear(ctx context.Context) error
}

// SessionService owns the sign-in and sign-out transitions. Login stores
// the new tokens before it merges the guest cart, so the merge request is
// authenticated and no cart read can race ahead of it.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Logout(ctx context.Context) error
	// ForceLogout drops local credentials without telling the backend. The
	// CLI calls it when a request fails with client.ErrUnauthorized.
	ForceLogout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	IsAuthenticated(ctx context.Context) bool
}

type sessionService struct {
	auth  AuthRemote
	creds Credentials
	guest guestcart.Repository
	cart  CartService
	log   logging.Logger
}

func NewSessionService(auth AuthRemote, creds Credentials, guest guestcart.Repository, cart CartService, log logging.Logger) SessionService {
	if log == nil {
		log = logging.NewNop()
	}
	return &sessionService{auth: auth, creds: creds, guest: guest, cart: cart, log: log.With("service", "session")}
}

func (s *sessionService) Login(ctx context.Context, email, password string) (*models.User, error) {
	req := models.LoginRequest{Email: email, Password: password}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, ErrNoAccessToken
	}
	if err := s.creds.SaveLogin(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	s.log.Info(ctx, "signed in", "email", email)

	s.mergeGuestCart(ctx)

	if resp.User != nil {
		return resp.User, nil
	}
	u, err := s.auth.Me(ctx)
	if err != nil {
		s.log.Warn(ctx, "fetching profile after login", "error", err)
		return &models.User{Email: email}, nil
	}
	return u, nil
}

func (s *sessionService) mergeGuestCart(ctx context.Context) {
	items, err := s.guest.Load(ctx)
	if err != nil {
		s.log.Error(ctx, "reading guest cart before merge", "error", err)
		return
	}
	if len(items) == 0 {
		return
	}
	// MergeGuestCart logs its own failures and keeps the guest cart.
	_, _ = s.cart.MergeGuestCart(ctx, items)
}

func (s *sessionService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	u, err := s.auth.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return u, nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	refresh, err := s.creds.RefreshToken(ctx)
	if err != nil {
		s.log.Warn(ctx, "reading refresh token for logout", "error", err)
	}
	if err := s.auth.Logout(ctx, refresh); err != nil {
		s.log.Warn(ctx, "backend logout failed, clearing local session anyway", "error", err)
	}
	return s.ForceLogout(ctx)
}

func (s *sessionService) ForceLogout(ctx context.Context) error {
	if err := s.creds.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.log.Info(ctx, "signed out")
	return nil
}

func (s *sessionService) Me(ctx context.Context) (*models.User, error) {
	if !s.creds.Authenticated(ctx) {
		return nil, ErrNotAuthenticated
	}
	return s.auth.Me(ctx)
}

func (s *sessionService) IsAuthenticated(ctx context.Context) bool {
	return s.creds.Authenticated(ctx)
}
