package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/404talk/webapp/pkg/cryptox"
)

const demoTestSecret = "demo-secret-0123456789abcdef"

func newTestDemoService(t *testing.T) *DemoService {
	t.Helper()
	hash, err := cryptox.HashPassword("Demo123!")
	require.NoError(t, err)
	return NewDemoService("demo@404talk.com", hash, demoTestSecret)
}

func TestDemoServiceEnabled(t *testing.T) {
	t.Parallel()

	require.True(t, newTestDemoService(t).Enabled())

	var nilService *DemoService
	require.False(t, nilService.Enabled())
	require.False(t, nilService.Matches("demo@404talk.com", "Demo123!"))

	require.False(t, NewDemoService("", "", "").Enabled())
}

func TestDemoServiceMatches(t *testing.T) {
	t.Parallel()
	svc := newTestDemoService(t)

	require.True(t, svc.Matches("demo@404talk.com", "Demo123!"))
	require.True(t, svc.Matches("DEMO@404talk.com", "Demo123!"), "email match is case-insensitive")
	require.False(t, svc.Matches("demo@404talk.com", "wrong"))
	require.False(t, svc.Matches("other@404talk.com", "Demo123!"))
}

func TestDemoServiceMintGrant(t *testing.T) {
	t.Parallel()
	svc := newTestDemoService(t)

	token, user, err := svc.MintGrant()
	require.NoError(t, err)

	require.Equal(t, "Bearer", token.TokenType)
	require.NotEmpty(t, token.AccessToken)
	require.NotEmpty(t, token.RefreshToken)
	require.NotEqual(t, token.AccessToken, token.RefreshToken)

	accessExpiry, err := time.Parse(time.RFC3339, token.AccessTokenExpiry)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(demoAccessTTL), accessExpiry, time.Minute)
	refreshExpiry, err := time.Parse(time.RFC3339, token.RefreshTokenExpiry)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(demoRefreshTTL), refreshExpiry, time.Minute)

	require.Equal(t, "demo@404talk.com", user.Email)
	require.Equal(t, "admin", user.Role)
	require.True(t, user.IsActive)

	// Tokens are real HS256 JWTs verifiable with the configured secret.
	var claims demoClaims
	_, err = jwt.ParseWithClaims(token.AccessToken, &claims, func(*jwt.Token) (any, error) {
		return []byte(demoTestSecret), nil
	})
	require.NoError(t, err)
	require.Equal(t, "access", claims.TokenUse)
	require.Equal(t, user.ID, claims.Subject)
}

func TestDemoServiceStableIdentity(t *testing.T) {
	t.Parallel()
	svc := newTestDemoService(t)

	_, first, err := svc.MintGrant()
	require.NoError(t, err)
	_, second, err := svc.MintGrant()
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "repeated demo logins resolve to one identity")
}

func TestDemoServiceRefreshGrant(t *testing.T) {
	t.Parallel()
	svc := newTestDemoService(t)

	token, _, err := svc.MintGrant()
	require.NoError(t, err)

	t.Run("valid refresh token re-mints access", func(t *testing.T) {
		refreshed, err := svc.RefreshGrant(token.RefreshToken)
		require.NoError(t, err)
		require.NotEmpty(t, refreshed.AccessToken)
		require.Equal(t, token.RefreshToken, refreshed.RefreshToken)
	})

	t.Run("access token is not accepted as refresh", func(t *testing.T) {
		_, err := svc.RefreshGrant(token.AccessToken)
		require.ErrorIs(t, err, ErrNotDemoToken)
	})

	t.Run("foreign token falls through", func(t *testing.T) {
		_, err := svc.RefreshGrant("not-a-jwt")
		require.ErrorIs(t, err, ErrNotDemoToken)
	})

	t.Run("wrong secret falls through", func(t *testing.T) {
		other := NewDemoService("demo@404talk.com", svc.PasswordHash, "a-different-secret")
		otherToken, _, err := other.MintGrant()
		require.NoError(t, err)
		_, err = svc.RefreshGrant(otherToken.RefreshToken)
		require.ErrorIs(t, err, ErrNotDemoToken)
	})

	t.Run("expired refresh token falls through", func(t *testing.T) {
		expired := newTestDemoService(t)
		expired.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
		oldToken, _, err := expired.MintGrant()
		require.NoError(t, err)
		_, err = svc.RefreshGrant(oldToken.RefreshToken)
		require.ErrorIs(t, err, ErrNotDemoToken)
	})
}
