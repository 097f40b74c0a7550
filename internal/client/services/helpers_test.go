package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/biometric"
	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/securestore"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/stretchr/testify/require"
)

var errDisk = errors.New("disk i/o")

// ---- fake store ----

// faultStore wraps a MemoryStore and fails selected keys on demand. It does
// not implement securestore.Batcher, so registration takes the sequential
// path.
type faultStore struct {
	mem *securestore.MemoryStore

	mu      sync.Mutex
	failGet map[string]error
	failSet map[string]error
	failDel map[string]error
	reads   int
}

func newFaultStore() *faultStore {
	return &faultStore{
		mem:     securestore.NewMemoryStore(),
		failGet: map[string]error{},
		failSet: map[string]error{},
		failDel: map[string]error{},
	}
}

func (f *faultStore) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	f.reads++
	err := f.failGet[key]
	f.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return f.mem.Get(ctx, key)
}

func (f *faultStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	err := f.failSet[key]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.mem.Set(ctx, key, value)
}

func (f *faultStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	err := f.failDel[key]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.mem.Delete(ctx, key)
}

func (f *faultStore) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *faultStore) value(t *testing.T, key string) (string, bool) {
	t.Helper()
	v, ok, err := f.mem.Get(context.Background(), key)
	require.NoError(t, err)
	return v, ok
}

// ---- fake authenticator ----

type fakeAuthenticator struct {
	hardware bool
	enrolled bool
	result   biometric.Result
	err      error

	capabilityErr error
	calls         int
	capChecks     int
	lastPrompt    biometric.Prompt
}

func (f *fakeAuthenticator) HasHardware(context.Context) (bool, error) {
	f.capChecks++
	return f.hardware, f.capabilityErr
}

func (f *fakeAuthenticator) IsEnrolled(context.Context) (bool, error) {
	f.capChecks++
	return f.enrolled, f.capabilityErr
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, p biometric.Prompt) (biometric.Result, error) {
	f.calls++
	f.lastPrompt = p
	return f.result, f.err
}

// ---- fake clock ----

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// ---- fixtures ----

var johnDoe = models.RegisterData{
	Email:     "a@b.com",
	Password:  "Password123",
	FirstName: "John",
	LastName:  "Doe",
}

type fixture struct {
	store *faultStore
	clock *fakeClock
	bio   *fakeAuthenticator
}

func newFixture() *fixture {
	return &fixture{
		store: newFaultStore(),
		clock: newFakeClock(),
		bio:   &fakeAuthenticator{hardware: true, enrolled: true, result: biometric.Result{Success: true}},
	}
}

func (f *fixture) manager(t *testing.T, opts ...Option) *SessionManager {
	t.Helper()
	base := []Option{
		WithClock(f.clock.Now),
		WithBiometrics(true, f.bio),
		withIDGenerator(func() string { return "user-1" }),
	}
	m := NewSessionManager(f.store, append(base, opts...)...)
	m.Init(context.Background())
	return m
}

func (f *fixture) seed(t *testing.T, kv map[string]string) {
	t.Helper()
	require.NoError(t, f.store.mem.SetMany(context.Background(), kv))
}

func failLogins(t *testing.T, m *SessionManager, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.False(t, m.Login(context.Background(), "a@b.com", "wrong"))
	}
}

var allKeys = []string{
	common.KeyUserData,
	common.KeyUserCredentials,
	common.KeySessionToken,
	common.KeyFailedAttempts,
	common.KeyLockTimestamp,
}
