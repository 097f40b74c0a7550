package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/client/services"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// ---- fake auth service ----

// fakeAuth implements services.AuthService for CLI tests.
type fakeAuth struct {
	mu sync.Mutex

	state       models.SessionState
	loginOK     bool
	registerOK  bool
	bioOK       bool
	lockedUntil time.Time

	logins       []string
	registered   []models.RegisterData
	bioCalls     int
	logoutCalls  int
	refreshCalls int

	ch chan models.SessionState
}

var _ services.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) Init(context.Context) {}

func (f *fakeAuth) Login(_ context.Context, email, password string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, email+"/"+password)
	if !f.loginOK {
		f.state.FailedAttempts++
		return false
	}
	f.state.IsAuthenticated = true
	f.state.User = &models.UserProfile{Email: email, FirstName: "John", LastName: "Doe"}
	return true
}

func (f *fakeAuth) Register(_ context.Context, data models.RegisterData) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, data)
	if f.registerOK {
		f.state.IsAuthenticated = true
		f.state.User = &models.UserProfile{Email: data.Email}
	}
	return f.registerOK
}

func (f *fakeAuth) Logout(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	f.state.IsAuthenticated = false
	f.state.User = nil
}

func (f *fakeAuth) AuthenticateWithBiometrics(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bioCalls++
	if f.bioOK {
		f.state.IsAuthenticated = true
		f.state.User = &models.UserProfile{Email: "a@b.com"}
	}
	return f.bioOK
}

func (f *fakeAuth) RefreshLock(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	return f.state.IsLocked
}

func (f *fakeAuth) State() models.SessionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeAuth) Subscribe() (<-chan models.SessionState, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ch == nil {
		f.ch = make(chan models.SessionState, 1)
		f.ch <- f.state
	}
	return f.ch, func() {}
}

func (f *fakeAuth) LockedUntil() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lockedUntil, f.state.IsLocked
}

func (f *fakeAuth) refreshes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

// ---- helpers ----

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

// pipedInput makes GetPassword read lines instead of the terminal.
func pipedInput(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

// safeBuffer is a bytes.Buffer that can be written by watchers and read
// by the test.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestApp(t *testing.T, svc *fakeAuth, input string) (*App, *safeBuffer) {
	t.Helper()
	pipedInput(t)
	out := &safeBuffer{}
	a := NewApp(svc, rdr(input), out, logging.Nop(), 10*time.Millisecond)
	a.now = func() time.Time { return testNow }
	return a, out
}
