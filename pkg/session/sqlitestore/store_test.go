package sqlitestore_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/404talk/webapp/pkg/authapi"
	"github.com/404talk/webapp/pkg/session"
	"github.com/404talk/webapp/pkg/session/sqlitestore"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *sqlitestore.Store {
	t.Helper()
	store, err := sqlitestore.New(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestWriteReadRemove(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "credentials.db"))

	_, ok := store.Read("accessToken")
	require.False(t, ok)

	store.Write("accessToken", "tok-1")
	got, ok := store.Read("accessToken")
	require.True(t, ok)
	require.Equal(t, "tok-1", got)

	// Overwrite replaces in place.
	store.Write("accessToken", "tok-2")
	got, _ = store.Read("accessToken")
	require.Equal(t, "tok-2", got)

	store.Remove("accessToken")
	_, ok = store.Read("accessToken")
	require.False(t, ok)

	// Removing an absent key is a no-op, not an error.
	store.Remove("accessToken")
}

func TestCredentialsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.db")

	store := openStore(t, path)
	store.Write("refreshToken", "persisted")
	require.NoError(t, store.Close())

	reopened := openStore(t, path)
	got, ok := reopened.Read("refreshToken")
	require.True(t, ok)
	require.Equal(t, "persisted", got)
}

func TestManagerOverSQLiteStore(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "credentials.db"))
	mgr := session.NewManager(store)

	expiry := time.Now().Add(30 * time.Minute).UTC().Format(time.RFC3339)
	mgr.SetTokens(authapi.TokenData{
		AccessToken:       "access",
		RefreshToken:      "refresh",
		AccessTokenExpiry: expiry,
		TokenType:         "Bearer",
	}, authapi.UserData{ID: "u1", Email: "a@b.c", DisplayName: "A", IsActive: true, Role: "user"})

	require.True(t, mgr.IsAuthenticated())

	role, ok := mgr.UserRole()
	require.True(t, ok)
	require.Equal(t, session.RoleUser, role)

	mgr.ClearTokens()
	require.False(t, mgr.IsAuthenticated())
	_, ok = store.Read("userData")
	require.False(t, ok)
}

func TestPing(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, store.Ping(t.Context()))
}
