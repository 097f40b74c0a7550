package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/services"
	"github.com/dmitrijs2005/gophauth/internal/client/validation"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// lockReporter is implemented by managers that can tell when a lock ends.
type lockReporter interface {
	LockedUntil() (time.Time, bool)
}

type App struct {
	svc       services.AuthService
	validator *validation.Validator
	log       logging.Logger
	reader    *bufio.Reader
	out       io.Writer
	now       func() time.Time

	lockCheckInterval time.Duration
}

// lockedWriter serializes writes from the REPL and the watchers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// NewApp builds the CLI over svc. reader is shared with any component that
// also reads the console, such as a prompt-based biometric authenticator.
func NewApp(svc services.AuthService, reader *bufio.Reader, out io.Writer, log logging.Logger, lockCheckInterval time.Duration) *App {
	return &App{
		svc:               svc,
		validator:         validation.New(),
		log:               log.With("component", "cli"),
		reader:            reader,
		out:               &lockedWriter{w: out},
		now:               time.Now,
		lockCheckInterval: lockCheckInterval,
	}
}

// Run starts the background watchers and blocks in the REPL until the user
// exits, input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.StartLockWatcher(ctx, a.lockCheckInterval)
	}()
	go func() {
		defer wg.Done()
		a.WatchState(ctx)
	}()

	a.Root(ctx)

	cancel()
	wg.Wait()
}

// Root greets the user and runs the command loop.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to gophauth (type 'help' for commands)")
	if st := a.svc.State(); st.IsAuthenticated && st.User != nil {
		a.printf("Welcome back, %s\n", displayName(st.User.FullName(), st.User.Email))
	}
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.svc.State().IsAuthenticated
}

func (a *App) getStatus() string {
	st := a.svc.State()
	switch {
	case st.IsLocked:
		return "(locked)"
	case st.IsAuthenticated && st.User != nil:
		return fmt.Sprintf("(%s)", st.User.Email)
	default:
		return ""
	}
}

// lockRemaining returns how long the current lock lasts, if known.
func (a *App) lockRemaining() (time.Duration, bool) {
	lr, ok := a.svc.(lockReporter)
	if !ok {
		return 0, false
	}
	until, locked := lr.LockedUntil()
	if !locked {
		return 0, false
	}
	d := until.Sub(a.now())
	if d < 0 {
		d = 0
	}
	return d.Round(time.Second), true
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func displayName(fullName, email string) string {
	if fullName != "" {
		return fullName
	}
	return email
}
