package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/404talk/webapp/pkg/apiclient"
	"github.com/404talk/webapp/pkg/authapi"
)

// AuthService adapts the upstream identity API for the web surface. It
// validates nothing itself (handlers run validation before dispatch) but owns
// the demo short-circuit and the translation of upstream rejections back into
// the success/message envelope.
//
// Transport faults and timeouts pass through as errors so handlers can map
// them to gateway statuses instead of pretending the credentials were wrong.
type AuthService struct {
	Upstream *apiclient.Client
	Demo     *DemoService // optional
}

// Login authenticates a credential pair. The demo pair never leaves the
// process; everything else is forwarded upstream.
func (s *AuthService) Login(ctx context.Context, req authapi.LoginRequest) (*authapi.LoginResponse, error) {
	if s.Demo.Matches(req.Email, req.Password) {
		token, user, err := s.Demo.MintGrant()
		if err != nil {
			return nil, fmt.Errorf("demo grant: %w", err)
		}
		return &authapi.LoginResponse{
			Success: true,
			Message: "Login successful",
			Token:   &token,
			User:    &user,
		}, nil
	}

	var resp authapi.LoginResponse
	if err := s.Upstream.Post(ctx, "/auth/login", req, &resp); err != nil {
		return rejected[authapi.LoginResponse](err, func(message string) authapi.LoginResponse {
			return authapi.LoginResponse{Message: message}
		})
	}
	return &resp, nil
}

// Register forwards an already validated registration upstream.
func (s *AuthService) Register(ctx context.Context, req authapi.RegistrationRequest) (*authapi.RegistrationResponse, error) {
	var resp authapi.RegistrationResponse
	if err := s.Upstream.Post(ctx, "/auth/register", req, &resp); err != nil {
		return rejected[authapi.RegistrationResponse](err, func(message string) authapi.RegistrationResponse {
			return authapi.RegistrationResponse{Message: message, Errors: []string{message}}
		})
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new access token. Demo-issued
// tokens are re-minted locally; all others go upstream.
func (s *AuthService) Refresh(ctx context.Context, req authapi.RefreshTokenRequest) (*authapi.RefreshTokenResponse, error) {
	if token, err := s.Demo.RefreshGrant(req.RefreshToken); err == nil {
		return &authapi.RefreshTokenResponse{
			Success: true,
			Message: "Token refreshed",
			Token:   &token,
		}, nil
	} else if !errors.Is(err, ErrNotDemoToken) {
		return nil, err
	}

	var resp authapi.RefreshTokenResponse
	if err := s.Upstream.Post(ctx, "/auth/refresh-token", req, &resp); err != nil {
		return rejected[authapi.RefreshTokenResponse](err, func(message string) authapi.RefreshTokenResponse {
			return authapi.RefreshTokenResponse{Message: message}
		})
	}
	return &resp, nil
}

// Logout asks the upstream API to revoke the refresh token, forwarding the
// caller's bearer token. Demo tokens revoke trivially: there is nothing
// server-side to invalidate.
func (s *AuthService) Logout(ctx context.Context, accessToken string, req authapi.LogoutRequest) (*authapi.LogoutResponse, error) {
	if _, err := s.Demo.RefreshGrant(req.RefreshToken); err == nil {
		return &authapi.LogoutResponse{Success: true, Message: "Logged out"}, nil
	}

	var resp authapi.LogoutResponse
	err := s.Upstream.Post(ctx, "/auth/logout", req, &resp,
		apiclient.WithHeader("Authorization", "Bearer "+accessToken))
	if err != nil {
		return rejected[authapi.LogoutResponse](err, func(message string) authapi.LogoutResponse {
			return authapi.LogoutResponse{Message: message}
		})
	}
	return &resp, nil
}

// rejected converts an upstream HTTP rejection into a failure envelope built
// by mk. Non-HTTP errors (timeout, transport) pass through unchanged.
func rejected[T any](err error, mk func(message string) T) (*T, error) {
	var httpErr *apiclient.HTTPError
	if errors.As(err, &httpErr) {
		resp := mk(httpErr.Message)
		return &resp, nil
	}
	return nil, err
}
