// Package authclient composes the session manager and the BFF dispatcher into
// the high-level auth flows: login, register, silent refresh and logout.
package authclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/404talk/webapp/pkg/apiclient"
	"github.com/404talk/webapp/pkg/authapi"
	"github.com/404talk/webapp/pkg/session"
)

// ErrNoRefreshToken is returned by Refresh when the session holds no refresh
// token to exchange.
var ErrNoRefreshToken = errors.New("authclient: no refresh token in session")

// AuthFailure is a domain rejection of a login or registration attempt. It is
// distinct from transport failures: the request reached the identity surface
// and was refused. Reasons is never empty.
type AuthFailure struct {
	Reasons []string
}

func (e *AuthFailure) Error() string {
	return e.Reasons[0]
}

func newAuthFailure(message string, errs []string) *AuthFailure {
	reasons := make([]string, 0, len(errs)+1)
	for _, r := range errs {
		if r != "" {
			reasons = append(reasons, r)
		}
	}
	if len(reasons) == 0 {
		if message == "" {
			message = "authentication failed"
		}
		reasons = append(reasons, message)
	}
	return &AuthFailure{Reasons: reasons}
}

// SessionGrant is the result of a successful login: the minted token aggregate
// and the authenticated identity, both already persisted in the session.
type SessionGrant struct {
	Token authapi.TokenData
	User  authapi.UserData
}

// Client runs the auth flows against the BFF surface and keeps the session
// manager in sync with their outcomes.
type Client struct {
	bff      *apiclient.BFFClient
	sessions *session.Manager
}

func New(bff *apiclient.BFFClient, sessions *session.Manager) *Client {
	return &Client{bff: bff, sessions: sessions}
}

// Login exchanges credentials for a token pair. On success the full aggregate
// is persisted before the grant is returned. A success envelope missing its
// token or user is treated as a failure and persists nothing: a grant either
// exists completely or not at all.
//
// Domain rejections come back as *AuthFailure; transport faults and timeouts
// are returned wrapped so callers can offer a retry instead of blaming the
// credentials.
func (c *Client) Login(ctx context.Context, req authapi.LoginRequest) (*SessionGrant, error) {
	var resp authapi.LoginResponse
	if err := c.bff.Post(ctx, "/auth/login", req, &resp); err != nil {
		var httpErr *apiclient.HTTPError
		if errors.As(err, &httpErr) {
			return nil, newAuthFailure(httpErr.Message, nil)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !resp.Success || resp.Token == nil || resp.User == nil {
		return nil, newAuthFailure(resp.Message, resp.Errors)
	}

	c.sessions.SetTokens(*resp.Token, *resp.User)
	return &SessionGrant{Token: *resp.Token, User: *resp.User}, nil
}

// Register submits a registration. It never touches the session: a fresh
// account still has to log in.
func (c *Client) Register(ctx context.Context, req authapi.RegistrationRequest) (*authapi.RegistrationResponse, error) {
	var resp authapi.RegistrationResponse
	if err := c.bff.Post(ctx, "/auth/register", req, &resp); err != nil {
		var httpErr *apiclient.HTTPError
		if errors.As(err, &httpErr) {
			return nil, newAuthFailure(httpErr.Message, nil)
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	if !resp.Success {
		return nil, newAuthFailure(resp.Message, resp.Errors)
	}
	return &resp, nil
}

// Refresh exchanges the stored refresh token for a new access token and
// updates only the access token and its expiry, leaving the refresh token and
// identity in place.
//
// A definitive rejection from the surface clears the whole session: the
// refresh token is dead and keeping stale credentials around only produces
// confusing half-authenticated states. Transport faults leave the session
// untouched so a later attempt can still succeed.
func (c *Client) Refresh(ctx context.Context) error {
	refreshToken, ok := c.sessions.GetRefreshToken()
	if !ok || refreshToken == "" {
		return ErrNoRefreshToken
	}

	var resp authapi.RefreshTokenResponse
	err := c.bff.Post(ctx, "/auth/refresh-token", authapi.RefreshTokenRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		var httpErr *apiclient.HTTPError
		if errors.As(err, &httpErr) {
			c.sessions.ClearTokens()
			return newAuthFailure(httpErr.Message, nil)
		}
		return fmt.Errorf("refresh: %w", err)
	}

	if !resp.Success || resp.Token == nil {
		c.sessions.ClearTokens()
		return newAuthFailure(resp.Message, nil)
	}

	c.sessions.UpdateAccessToken(resp.Token.AccessToken, resp.Token.AccessTokenExpiry)
	return nil
}

// Logout revokes the refresh token on a best-effort basis and always clears
// the local session, even when revocation fails. The returned error reports
// the revocation outcome; the local session is gone regardless.
func (c *Client) Logout(ctx context.Context) error {
	refreshToken, _ := c.sessions.GetRefreshToken()

	var revokeErr error
	var resp authapi.LogoutResponse
	if err := c.bff.Post(ctx, "/auth/logout", authapi.LogoutRequest{RefreshToken: refreshToken}, &resp, apiclient.WithAuth()); err != nil {
		revokeErr = fmt.Errorf("logout revoke: %w", err)
	}

	c.sessions.ClearTokens()
	return revokeErr
}
