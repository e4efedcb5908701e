package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/404talk/webapp/pkg/authapi"
	"github.com/404talk/webapp/pkg/cryptox"
	"github.com/404talk/webapp/pkg/idx"
)

const (
	demoIssuer      = "404talk-web"
	demoAccessTTL   = 15 * time.Minute
	demoRefreshTTL  = 7 * 24 * time.Hour
	demoDisplayName = "Demo Admin"
)

// ErrNotDemoToken reports a refresh token that was not minted by the demo
// service.
var ErrNotDemoToken = errors.New("service: not a demo-issued token")

type demoClaims struct {
	jwt.RegisteredClaims
	TokenUse string `json:"use"`
	Role     string `json:"role"`
}

// DemoService short-circuits a single configured credential pair to a locally
// minted HS256 token pair. It exists so the web tier can be exercised without
// a reachable identity API. Disabled unless an email, password hash and
// signing secret are all configured.
type DemoService struct {
	Email        string
	PasswordHash string // argon2id PHC string
	Secret       []byte

	// userID is stable for the process lifetime so repeated demo logins
	// resolve to the same identity.
	userID idx.ID

	now func() time.Time
}

func NewDemoService(email, passwordHash, secret string) *DemoService {
	return &DemoService{
		Email:        email,
		PasswordHash: passwordHash,
		Secret:       []byte(secret),
		userID:       idx.New(),
		now:          time.Now,
	}
}

// Enabled reports whether the demo credential is fully configured.
func (s *DemoService) Enabled() bool {
	return s != nil && s.Email != "" && s.PasswordHash != "" && len(s.Secret) > 0
}

// Matches reports whether the supplied credentials are the demo pair. Email
// comparison is case-insensitive; the password is verified against the
// configured argon2id hash.
func (s *DemoService) Matches(email, password string) bool {
	if !s.Enabled() || !strings.EqualFold(email, s.Email) {
		return false
	}
	return cryptox.VerifyPassword(password, s.PasswordHash) == nil
}

// MintGrant produces a fresh token pair and the demo identity.
func (s *DemoService) MintGrant() (authapi.TokenData, authapi.UserData, error) {
	now := s.now().UTC()

	accessExpiry := now.Add(demoAccessTTL)
	accessToken, err := s.mint("access", now, accessExpiry)
	if err != nil {
		return authapi.TokenData{}, authapi.UserData{}, fmt.Errorf("mint access token: %w", err)
	}

	refreshExpiry := now.Add(demoRefreshTTL)
	refreshToken, err := s.mint("refresh", now, refreshExpiry)
	if err != nil {
		return authapi.TokenData{}, authapi.UserData{}, fmt.Errorf("mint refresh token: %w", err)
	}

	token := authapi.TokenData{
		AccessToken:        accessToken,
		RefreshToken:       refreshToken,
		AccessTokenExpiry:  accessExpiry.Format(time.RFC3339),
		RefreshTokenExpiry: refreshExpiry.Format(time.RFC3339),
		TokenType:          "Bearer",
	}
	return token, s.user(), nil
}

// RefreshGrant validates a demo-issued refresh token and mints a replacement
// access token. Returns ErrNotDemoToken for anything the demo service did not
// sign, so the caller can fall through to the upstream API.
func (s *DemoService) RefreshGrant(refreshToken string) (authapi.TokenData, error) {
	if !s.Enabled() {
		return authapi.TokenData{}, ErrNotDemoToken
	}

	var claims demoClaims
	_, err := jwt.ParseWithClaims(refreshToken, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.Secret, nil
	}, jwt.WithIssuer(demoIssuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return authapi.TokenData{}, ErrNotDemoToken
	}
	if claims.TokenUse != "refresh" {
		return authapi.TokenData{}, ErrNotDemoToken
	}

	now := s.now().UTC()
	accessExpiry := now.Add(demoAccessTTL)
	accessToken, err := s.mint("access", now, accessExpiry)
	if err != nil {
		return authapi.TokenData{}, fmt.Errorf("mint access token: %w", err)
	}

	return authapi.TokenData{
		AccessToken:       accessToken,
		RefreshToken:      refreshToken,
		AccessTokenExpiry: accessExpiry.Format(time.RFC3339),
		TokenType:         "Bearer",
	}, nil
}

func (s *DemoService) mint(use string, issuedAt, expiresAt time.Time) (string, error) {
	claims := demoClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        idx.New().String(),
			Issuer:    demoIssuer,
			Subject:   s.userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenUse: use,
		Role:     "admin",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

func (s *DemoService) user() authapi.UserData {
	return authapi.UserData{
		ID:          s.userID.String(),
		Email:       s.Email,
		DisplayName: demoDisplayName,
		IsActive:    true,
		Role:        "admin",
	}
}
