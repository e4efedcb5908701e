package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/404talk/webapp/pkg/apiclient"
	"github.com/404talk/webapp/pkg/authapi"
)

func newAuthService(t *testing.T, demo *DemoService, handler http.HandlerFunc) *AuthService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &AuthService{
		Upstream: apiclient.New(apiclient.Config{
			BaseURL: srv.URL,
			APIKey:  "web-svc-key",
			Timeout: 2 * time.Second,
		}),
		Demo: demo,
	}
}

func TestAuthServiceLoginForwardsUpstream(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, nil, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, "web-svc-key", r.Header.Get(apiclient.DefaultAPIKeyHeader))

		var req authapi.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "user@404talk.com", req.Email)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(authapi.LoginResponse{
			Success: true,
			Message: "Login successful",
			Token:   &authapi.TokenData{AccessToken: "upstream-access", TokenType: "Bearer"},
			User:    &authapi.UserData{ID: "u1", Email: "user@404talk.com", Role: "user"},
		}))
	})

	resp, err := svc.Login(t.Context(), authapi.LoginRequest{Email: "user@404talk.com", Password: "Password1!"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "upstream-access", resp.Token.AccessToken)
}

func TestAuthServiceLoginUpstreamRejection(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, nil, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Invalid email or password"}`, http.StatusUnauthorized)
	})

	resp, err := svc.Login(t.Context(), authapi.LoginRequest{Email: "user@404talk.com", Password: "wrong"})
	require.NoError(t, err, "a domain rejection is an envelope, not an error")
	require.False(t, resp.Success)
	require.Equal(t, "Invalid email or password", resp.Message)
}

func TestAuthServiceLoginTimeoutPassesThrough(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The server only notices the client giving up (and cancels this
		// request's context) once the body has been consumed; without the
		// drain this handler blocks forever and srv.Close deadlocks.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	svc := &AuthService{
		Upstream: apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}),
	}

	_, err := svc.Login(t.Context(), authapi.LoginRequest{Email: "user@404talk.com", Password: "x"})
	require.ErrorIs(t, err, apiclient.ErrTimeout)
}

func TestAuthServiceLoginDemoShortCircuit(t *testing.T) {
	t.Parallel()

	demo := newTestDemoService(t)
	svc := newAuthService(t, demo, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("demo credentials must never reach the upstream API")
	})

	resp, err := svc.Login(t.Context(), authapi.LoginRequest{Email: "demo@404talk.com", Password: "Demo123!"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Token)
	require.NotNil(t, resp.User)
	require.Equal(t, "admin", resp.User.Role)
}

func TestAuthServiceRefresh(t *testing.T) {
	t.Parallel()

	t.Run("demo token is re-minted locally", func(t *testing.T) {
		demo := newTestDemoService(t)
		token, _, err := demo.MintGrant()
		require.NoError(t, err)

		svc := newAuthService(t, demo, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("demo refresh must never reach the upstream API")
		})

		resp, err := svc.Refresh(t.Context(), authapi.RefreshTokenRequest{RefreshToken: token.RefreshToken})
		require.NoError(t, err)
		require.True(t, resp.Success)
		require.NotEmpty(t, resp.Token.AccessToken)
	})

	t.Run("foreign token goes upstream", func(t *testing.T) {
		demo := newTestDemoService(t)
		svc := newAuthService(t, demo, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/refresh-token", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			require.NoError(t, json.NewEncoder(w).Encode(authapi.RefreshTokenResponse{
				Success: true,
				Token:   &authapi.TokenData{AccessToken: "upstream-access-2"},
			}))
		})

		resp, err := svc.Refresh(t.Context(), authapi.RefreshTokenRequest{RefreshToken: "upstream-refresh"})
		require.NoError(t, err)
		require.Equal(t, "upstream-access-2", resp.Token.AccessToken)
	})
}

func TestAuthServiceLogoutForwardsBearer(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, nil, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout", r.URL.Path)
		require.Equal(t, "Bearer access-abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(authapi.LogoutResponse{Success: true, Message: "bye"}))
	})

	resp, err := svc.Logout(t.Context(), "access-abc", authapi.LogoutRequest{RefreshToken: "refresh-abc"})
	require.NoError(t, err)
	require.True(t, resp.Success)
}
