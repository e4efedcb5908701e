// Package authapi defines the wire types shared by the BFF surface and the
// upstream identity API. Field names match the upstream JSON contract.
package authapi

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	RememberMe bool    `json:"rememberMe"`
	ReturnURL  *string `json:"returnUrl"`
}

// TokenData is the token aggregate issued on login and refresh. Expiries are
// RFC 3339 instants. RefreshTokenExpiry is carried but never evaluated
// client-side.
type TokenData struct {
	AccessToken        string `json:"accessToken"`
	RefreshToken       string `json:"refreshToken"`
	AccessTokenExpiry  string `json:"accessTokenExpiry"`
	RefreshTokenExpiry string `json:"refreshTokenExpiry"`
	TokenType          string `json:"tokenType"`
}

// UserData is the identity persisted alongside the token aggregate.
type UserData struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	IsActive    bool   `json:"isActive"`
	Role        string `json:"role"`
}

// LoginResponse is the upstream login envelope. Token and User are only
// present when Success is true; consumers should go through
// authclient.Login which converts this into a tagged result.
type LoginResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Token   *TokenData `json:"token,omitempty"`
	User    *UserData  `json:"user,omitempty"`
	Errors  []string   `json:"errors,omitempty"`
}

// RegistrationRequest is the payload for POST /auth/register.
type RegistrationRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	DisplayName     string `json:"displayName"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	AcceptTerms     bool   `json:"acceptTerms"`
}

// RegistrationResponse is the upstream registration envelope.
type RegistrationResponse struct {
	Success bool     `json:"success"`
	UserID  string   `json:"userId,omitempty"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// RefreshTokenRequest is the payload for POST /auth/refresh-token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshTokenResponse carries the re-minted token aggregate on success.
type RefreshTokenResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Token   *TokenData `json:"token,omitempty"`
}

// LogoutRequest is the payload for POST /auth/logout. The access token rides
// in the Authorization header, not the body.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutResponse acknowledges refresh token revocation.
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is returned by the livez and readyz endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
