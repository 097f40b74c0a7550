package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/repositories/securestore"
	"github.com/dmitrijs2005/gophauth/internal/client/storage"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_SQLiteStore(t *testing.T) {
	ctx := context.Background()
	db, err := storage.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := securestore.NewSQLiteStore(ctx, db, []byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	clock := newFakeClock()
	newManager := func() *SessionManager {
		m := NewSessionManager(store, WithClock(clock.Now), WithCredentialScheme(cryptox.SchemeBcrypt))
		m.Init(ctx)
		return m
	}

	m := newManager()
	require.True(t, m.Register(ctx, johnDoe))

	restarted := newManager()
	require.True(t, restarted.State().IsAuthenticated)
	require.Equal(t, "John", restarted.State().User.FirstName)

	restarted.Logout(ctx)
	failLogins(t, restarted, 5)
	require.True(t, newManager().State().IsLocked)

	clock.Advance(5 * time.Minute)
	after := newManager()
	require.False(t, after.State().IsLocked)
	require.True(t, after.Login(ctx, "a@b.com", "Password123"))
}
