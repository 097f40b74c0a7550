package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, ch <-chan models.SessionState) models.SessionState {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "channel closed")
		return s
	case <-time.After(time.Second):
		t.Fatal("no state received")
		return models.SessionState{}
	}
}

func TestSubscribe_InitialSnapshotAndLoading(t *testing.T) {
	f := newFixture()
	m := NewSessionManager(f.store, WithClock(f.clock.Now))

	ch, cancel := m.Subscribe()
	defer cancel()

	require.True(t, recv(t, ch).IsLoading)

	m.Init(context.Background())
	require.False(t, recv(t, ch).IsLoading)
}

func TestSubscribe_LatestWins(t *testing.T) {
	f := newFixture()
	m := f.manager(t)

	ch, cancel := m.Subscribe()
	defer cancel()

	// Nobody reads while three failures are recorded.
	failLogins(t, m, 3)

	s := recv(t, ch)
	require.Equal(t, 3, s.FailedAttempts)

	select {
	case s := <-ch:
		t.Fatalf("unexpected extra state: %+v", s)
	default:
	}
}

func TestSubscribe_ObservesAuthentication(t *testing.T) {
	f := newFixture()
	m := f.manager(t)

	ch, cancel := m.Subscribe()
	defer cancel()
	recv(t, ch)

	require.True(t, m.Register(context.Background(), johnDoe))
	s := recv(t, ch)
	require.True(t, s.IsAuthenticated)
	require.Equal(t, "a@b.com", s.User.Email)

	m.Logout(context.Background())
	s = recv(t, ch)
	require.False(t, s.IsAuthenticated)
	require.Nil(t, s.User)
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	f := newFixture()
	m := f.manager(t)

	ch, cancel := m.Subscribe()
	cancel()
	cancel()

	for range ch {
	}

	// Updates after cancel must not panic on the closed channel.
	failLogins(t, m, 1)
}

func TestState_ReturnsCopy(t *testing.T) {
	f := newFixture()
	m := f.manager(t)
	require.True(t, m.Register(context.Background(), johnDoe))

	s := m.State()
	s.User.Email = "mutated@b.com"

	require.Equal(t, "a@b.com", m.State().User.Email)
}
