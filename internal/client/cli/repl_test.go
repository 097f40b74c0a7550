package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	f.calls = append(f.calls, "register")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Biometric(context.Context) error {
	f.calls = append(f.calls, "bio")
	return nil
}
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Status(context.Context) error { f.calls = append(f.calls, "status"); return nil }
func (f *fakeExec) WhoAmI(context.Context) error { f.calls = append(f.calls, "whoami"); return nil }

func replLines(out fmt.Stringer) []string {
	return strings.Split(strings.TrimSpace(out.String()), "\n")
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"whoami",
		"status",
		"logout",
		"bio",
		"REGISTER",
		"frobnicate",
		"exit",
		"status",
	}, "\n") + "\n"

	var out bytes.Buffer
	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, rdr(input), &out)

	printed := replLines(&out)
	require.Equal(t, []string{"login", "whoami", "status", "logout", "bio", "register"}, f.calls)
	require.Contains(t, printed, "Available commands: register, login, bio, status, exit")
	require.Contains(t, printed, "Available commands: status, whoami, logout, exit")
	require.Contains(t, printed, "Unknown command: frobnicate")
	require.Equal(t, "Bye!", printed[len(printed)-1])
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, rdr("login"), io.Discard)
	require.Equal(t, []string{"login"}, f.calls)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	f := &fakeExec{}
	runREPL(ctx, f, func() string { return "" }, rdr("login\n"), &out)
	require.Empty(t, f.calls)
	require.Empty(t, out.String())
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	var out bytes.Buffer
	runREPL(context.Background(), &fakeExec{}, func() string { return "(a@b.com)" }, rdr("exit\n"), &out)
	require.Equal(t, []string{"gophauth (a@b.com)>", "Bye!"}, replLines(&out))
}

func TestApp_Root_WritesThroughAppOutput(t *testing.T) {
	a, out := newTestApp(t, &fakeAuth{}, "help\nexit\n")

	a.Root(context.Background())

	got := out.String()
	require.Contains(t, got, "Welcome to gophauth")
	require.Contains(t, got, "gophauth >")
	require.Contains(t, got, "Available commands: register, login, bio, status, exit")
	require.Contains(t, got, "Bye!")
}
