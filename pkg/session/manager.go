package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/404talk/webapp/pkg/authapi"
)

// Storage keys for the session aggregate. All four live in the same store
// scope and are cleared together.
const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyTokenExpiry  = "tokenExpiry"
	keyUserData     = "userData"
)

// Manager owns every read and write of session credentials. No other
// component touches the Store directly. The mutex serializes aggregate
// writes so a concurrent reader can never observe a token without its expiry.
type Manager struct {
	mu    sync.RWMutex
	store Store
	now   func() time.Time
}

// NewManager returns a Manager over store. Construct one per browser-profile
// equivalent (one per process for a client, one per request context on a
// server) rather than sharing a global.
func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// SetTokens persists the full session aggregate: both tokens, the access
// token expiry and the serialized identity.
func (m *Manager) SetTokens(token authapi.TokenData, user authapi.UserData) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Write(keyAccessToken, token.AccessToken)
	m.store.Write(keyRefreshToken, token.RefreshToken)
	m.store.Write(keyTokenExpiry, token.AccessTokenExpiry)

	data, err := json.Marshal(user)
	if err != nil {
		// Identity must not survive without being readable; drop it so the
		// session degrades to "no identity" rather than half-written state.
		m.store.Remove(keyUserData)
		return
	}
	m.store.Write(keyUserData, string(data))
}

// UpdateAccessToken overwrites only the access token and its expiry after a
// silent refresh, leaving the refresh token and identity untouched.
func (m *Manager) UpdateAccessToken(accessToken, expiry string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Write(keyAccessToken, accessToken)
	m.store.Write(keyTokenExpiry, expiry)
}

// ClearTokens removes the entire aggregate. Nothing survives a clear.
func (m *Manager) ClearTokens() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Remove(keyAccessToken)
	m.store.Remove(keyRefreshToken)
	m.store.Remove(keyTokenExpiry)
	m.store.Remove(keyUserData)
}

// GetAccessToken returns the stored access token without checking expiry.
func (m *Manager) GetAccessToken() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Read(keyAccessToken)
}

// GetRefreshToken returns the stored refresh token.
func (m *Manager) GetRefreshToken() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Read(keyRefreshToken)
}

// GetUserData returns the stored identity. Corrupt stored data reads as
// absent; a broken session forces re-login, it never panics the UI.
func (m *Manager) GetUserData() (authapi.UserData, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.store.Read(keyUserData)
	if !ok {
		return authapi.UserData{}, false
	}
	var user authapi.UserData
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return authapi.UserData{}, false
	}
	return user, true
}

// GetTokenExpiry returns the recorded access token expiry instant. Malformed
// stored expiries read as absent.
func (m *Manager) GetTokenExpiry() (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readExpiry()
}

func (m *Manager) readExpiry() (time.Time, bool) {
	raw, ok := m.store.Read(keyTokenExpiry)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsTokenExpired reports whether the access token has expired. A missing or
// unreadable expiry counts as expired; validity is never assumed.
func (m *Manager) IsTokenExpired() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	expiry, ok := m.readExpiry()
	if !ok {
		return true
	}
	// Validity is non-inclusive: an expiry equal to "now" is already expired.
	return !expiry.After(m.now())
}

// IsAuthenticated reports whether an access token is present and still valid.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, ok := m.store.Read(keyAccessToken)
	if !ok || token == "" {
		return false
	}
	expiry, ok := m.readExpiry()
	if !ok {
		return false
	}
	return expiry.After(m.now())
}

// UserRole returns the session's role parsed against the closed role set.
func (m *Manager) UserRole() (Role, bool) {
	user, ok := m.GetUserData()
	if !ok {
		return "", false
	}
	return ParseRole(user.Role)
}

// IsAdmin reports whether the session role is admin.
func (m *Manager) IsAdmin() bool {
	role, ok := m.UserRole()
	return ok && role == RoleAdmin
}
