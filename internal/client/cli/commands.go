package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/client/validation"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var (
	errInvalidForm   = errors.New("invalid form")
	errAuthFailed    = errors.New("authentication failed")
	errNotAvailable  = errors.New("biometric authentication is not available")
	errAlreadyLocked = errors.New("account locked")
)

// Register asks for the registration form, validates it and creates the
// account. Any existing local account is replaced.
func (a *App) Register(ctx context.Context) error {
	var (
		form validation.RegisterForm
		err  error
	)

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &form.FirstName},
		{"Last name", &form.LastName},
		{"Email", &form.Email},
		{"Phone (optional)", &form.Phone},
		{"Date of birth, YYYY-MM-DD (optional)", &form.DateOfBirth},
		{"ZIP code (optional)", &form.ZipCode},
	}
	for _, f := range fields {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	terms, err := getSimpleText(a.reader, "Accept the terms of use? (y/n)", a.out)
	if err != nil {
		return err
	}
	form.Terms = acceptsTerms(terms)

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	form.Password = string(password)
	form.ConfirmPassword = string(confirm)

	if err := a.validator.Register(form); err != nil {
		a.reportInvalid(err)
		return errInvalidForm
	}

	if !a.svc.Register(ctx, form.RegisterData()) {
		a.println("Registration failed, see the log for details.")
		return errAuthFailed
	}

	a.printf("Account created. Signed in as %s.\n", strings.TrimSpace(form.Email))
	return nil
}

// Login asks for email and password and signs in.
func (a *App) Login(ctx context.Context) error {
	if a.reportLocked(ctx) {
		return errAlreadyLocked
	}

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.validator.Login(validation.LoginForm{Email: email, Password: string(password)}); err != nil {
		a.reportInvalid(err)
		return errInvalidForm
	}

	if a.svc.Login(ctx, strings.TrimSpace(email), string(password)) {
		a.greet()
		return nil
	}

	st := a.svc.State()
	if st.IsLocked {
		a.reportLocked(ctx)
	} else {
		a.printf("Invalid email or password (failed attempts: %d).\n", st.FailedAttempts)
	}
	return errAuthFailed
}

// Biometric signs in through the biometric authenticator.
func (a *App) Biometric(ctx context.Context) error {
	if !a.svc.State().IsBiometricsAvailable {
		a.println("Biometric authentication is not available on this device.")
		return errNotAvailable
	}
	if a.reportLocked(ctx) {
		return errAlreadyLocked
	}

	if !a.svc.AuthenticateWithBiometrics(ctx) {
		a.println("Biometric authentication failed. You can log in with your password.")
		return errAuthFailed
	}
	a.greet()
	return nil
}

// Logout ends the session; the account stays on the device.
func (a *App) Logout(ctx context.Context) error {
	a.svc.Logout(ctx)
	a.println("Logged out.")
	return nil
}

// Status prints the session view.
func (a *App) Status(ctx context.Context) error {
	st := a.svc.State()

	var b strings.Builder
	if st.IsAuthenticated && st.User != nil {
		fmt.Fprintf(&b, "Session:      signed in as %s\n", st.User.Email)
	} else {
		b.WriteString("Session:      signed out\n")
	}
	fmt.Fprintf(&b, "Failed tries: %d\n", st.FailedAttempts)
	if st.IsLocked {
		if d, ok := a.lockRemaining(); ok {
			fmt.Fprintf(&b, "Lock:         locked, %s left\n", d)
		} else {
			b.WriteString("Lock:         locked\n")
		}
	} else {
		b.WriteString("Lock:         unlocked\n")
	}
	if st.IsBiometricsAvailable {
		b.WriteString("Biometrics:   available\n")
	} else {
		b.WriteString("Biometrics:   unavailable\n")
	}

	a.printf("%s", b.String())
	return nil
}

// WhoAmI prints the profile of the signed-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.svc.State()
	if !st.IsAuthenticated || st.User == nil {
		a.println("Not signed in.")
		return nil
	}

	u := st.User
	var b strings.Builder
	fmt.Fprintf(&b, "ID:      %s\n", u.ID)
	fmt.Fprintf(&b, "Name:    %s\n", displayName(u.FullName(), "-"))
	fmt.Fprintf(&b, "Email:   %s\n", u.Email)
	if u.Phone != "" {
		fmt.Fprintf(&b, "Phone:   %s\n", u.Phone)
	}
	if u.DateOfBirth != "" {
		fmt.Fprintf(&b, "Born:    %s\n", u.DateOfBirth)
	}
	fmt.Fprintf(&b, "Created: %s\n", u.CreatedAt.Local().Format("2006-01-02 15:04"))

	a.printf("%s", b.String())
	return nil
}

func (a *App) greet() {
	st := a.svc.State()
	if st.User == nil {
		a.println("Signed in.")
		return
	}
	a.printf("Signed in. Welcome, %s!\n", displayName(st.User.FullName(), st.User.Email))
}

// reportLocked prints the lock notice and reports whether the account is
// locked. An expired lock is lifted first.
func (a *App) reportLocked(ctx context.Context) bool {
	if !a.svc.RefreshLock(ctx) {
		return false
	}
	if d, ok := a.lockRemaining(); ok {
		a.printf("Too many failed attempts. Try again in %s.\n", d)
	} else {
		a.println("Too many failed attempts. Try again later.")
	}
	return true
}

func (a *App) reportInvalid(err error) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		a.printf("Invalid input: %v\n", err)
		return
	}
	for _, fe := range verrs {
		a.printf("  %s %s\n", fe.Field, fe.Message)
	}
}

func acceptsTerms(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
