// Package services contains the application services of the gophauth client.
// This file defines the auth session manager: the single owner of identity,
// credential, session and lockout state on the device.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/biometric"
	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/identity"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/securestore"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/google/uuid"
)

// AuthService is the surface the UI layer talks to.
//
// Contract:
//   - Init: startup reconciliation; must run once before the other calls.
//   - Login / Register / AuthenticateWithBiometrics: report success as a
//     bool; storage faults are logged and never returned.
//   - Logout: ends the session, keeps the account.
//   - RefreshLock: re-evaluates lock expiry, reports whether still locked.
//   - State / Subscribe: read-only observation of the session view.
type AuthService interface {
	Init(ctx context.Context)
	Login(ctx context.Context, email, password string) bool
	Register(ctx context.Context, data models.RegisterData) bool
	Logout(ctx context.Context)
	AuthenticateWithBiometrics(ctx context.Context) bool
	RefreshLock(ctx context.Context) bool
	State() models.SessionState
	Subscribe() (<-chan models.SessionState, func())
}

// Policy is the brute-force lockout policy.
type Policy struct {
	MaxFailedAttempts int
	LockDuration      time.Duration
}

// DefaultPolicy locks for 5 minutes after 5 failed password logins.
func DefaultPolicy() Policy {
	return Policy{
		MaxFailedAttempts: common.DefaultMaxFailedAttempts,
		LockDuration:      common.DefaultLockDuration,
	}
}

// Option customizes a SessionManager.
type Option func(*SessionManager)

func WithLogger(l logging.Logger) Option {
	return func(m *SessionManager) { m.log = l }
}

func WithPolicy(p Policy) Option {
	return func(m *SessionManager) { m.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(m *SessionManager) { m.now = now }
}

// WithCredentialScheme selects how new passwords are stored
// (cryptox.SchemePlain or cryptox.SchemeBcrypt). Existing records keep
// verifying with the scheme they were written with.
func WithCredentialScheme(scheme string) Option {
	return func(m *SessionManager) { m.scheme = scheme }
}

// WithBiometrics wires the platform authenticator. supported is the
// platform capability flag; when false the authenticator is never called.
func WithBiometrics(supported bool, auth biometric.Authenticator) Option {
	return func(m *SessionManager) {
		m.bio = &biometricBridge{supported: supported && auth != nil, auth: auth}
	}
}

func withIDGenerator(gen func() string) Option {
	return func(m *SessionManager) { m.newID = gen }
}

// SessionManager implements AuthService on top of a secure store.
//
// Operations are serialized by opMu so the shared counters are never
// updated concurrently. The in-memory view is guarded by mu and published
// to subscribers after every change.
type SessionManager struct {
	repo   *identity.Repository
	bio    *biometricBridge
	log    logging.Logger
	policy Policy
	now    func() time.Time
	scheme string
	newID  func() string

	opMu sync.Mutex

	mu       sync.RWMutex
	state    models.SessionState
	lockedAt time.Time
	watchers map[int]chan models.SessionState
	nextID   int
}

var _ AuthService = (*SessionManager)(nil)

// NewSessionManager builds a manager over store. The returned manager
// reports IsLoading until Init completes.
func NewSessionManager(store securestore.Store, opts ...Option) *SessionManager {
	m := &SessionManager{
		repo:     identity.NewRepository(store),
		bio:      &biometricBridge{auth: biometric.Unsupported{}},
		log:      logging.Nop(),
		policy:   DefaultPolicy(),
		now:      time.Now,
		scheme:   cryptox.SchemePlain,
		newID:    uuid.NewString,
		state:    models.SessionState{IsLoading: true},
		watchers: make(map[int]chan models.SessionState),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("component", "auth")
	m.bio.log = m.log
	return m
}

// Init runs the startup reconciliation: biometric capability, lockout
// counters and persisted session are checked concurrently. Storage faults
// degrade to "not authenticated, not locked".
func (m *SessionManager) Init(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	ctx = context.WithoutCancel(ctx)

	m.update(func(s *models.SessionState) { s.IsLoading = true })

	var (
		wg       sync.WaitGroup
		bioOK    bool
		lockout  lockoutView
		sessUser *models.UserProfile
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		bioOK = m.bio.available(ctx)
	}()
	go func() {
		defer wg.Done()
		lockout = m.loadLockout(ctx)
	}()
	go func() {
		defer wg.Done()
		sessUser = m.loadSession(ctx)
	}()
	wg.Wait()

	m.update(func(s *models.SessionState) {
		s.IsBiometricsAvailable = bioOK
		s.FailedAttempts = lockout.attempts
		s.IsLocked = lockout.locked
		m.lockedAt = lockout.lockedAt
		s.User = sessUser
		s.IsAuthenticated = sessUser != nil
		s.IsLoading = false
	})

	m.log.Info(ctx, "session restored",
		"authenticated", sessUser != nil,
		"locked", lockout.locked,
		"failed_attempts", lockout.attempts,
		"biometrics", bioOK)
}

// Login verifies email and password against the stored credentials.
// While locked it fails without touching the store or the counter.
func (m *SessionManager) Login(ctx context.Context, email, password string) bool {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	ctx = context.WithoutCancel(ctx)

	if m.lockedNow(ctx) {
		m.log.Warn(ctx, "login rejected", "reason", common.ErrLocked)
		return false
	}

	creds, err := m.repo.Credentials(ctx)
	if err != nil {
		m.logReadFault(ctx, common.KeyUserCredentials, err)
		m.recordFailure(ctx)
		return false
	}

	if creds.Email != email || !cryptox.VerifyPassword(creds.Scheme, creds.Password, password) {
		m.log.Debug(ctx, "login rejected", "reason", common.ErrInvalidCredentials)
		m.recordFailure(ctx)
		return false
	}

	m.completeAuthentication(ctx, email)
	m.log.Info(ctx, "login succeeded")
	return true
}

// Register replaces any existing account on the device and opens a session
// for it. On a storage fault the in-memory state is left untouched.
func (m *SessionManager) Register(ctx context.Context, data models.RegisterData) bool {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	ctx = context.WithoutCancel(ctx)

	now := m.now()
	user := &models.UserProfile{
		ID:          m.newID(),
		Email:       data.Email,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Phone:       data.Phone,
		DateOfBirth: data.DateOfBirth,
		CreatedAt:   now.UTC(),
	}

	stored, err := cryptox.ProtectPassword(m.scheme, data.Password)
	if err != nil {
		m.log.Error(ctx, "registration failed", "error", err)
		return false
	}
	creds := &models.Credentials{Email: data.Email, Password: stored}
	if m.scheme != cryptox.SchemePlain {
		creds.Scheme = m.scheme
	}

	if err := m.repo.SaveRegistration(ctx, user, creds, newSessionToken(now)); err != nil {
		m.log.Error(ctx, "registration failed", "error", err)
		return false
	}

	m.update(func(s *models.SessionState) {
		s.User = user
		s.IsAuthenticated = true
	})
	m.log.Info(ctx, "account registered", "user_id", user.ID)
	return true
}

// Logout deletes the session marker and the persisted lockout counters.
// Profile and credentials are kept so the user can log in again. The
// in-memory session is cleared even if the deletes fail.
func (m *SessionManager) Logout(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	ctx = context.WithoutCancel(ctx)

	if err := m.repo.DeleteSessionToken(ctx); err != nil {
		m.log.Error(ctx, "delete session marker", "error", err)
	}
	if err := m.repo.ClearLockout(ctx); err != nil {
		m.log.Error(ctx, "clear lockout counters", "error", err)
	}

	m.update(func(s *models.SessionState) {
		s.User = nil
		s.IsAuthenticated = false
	})
	m.log.Info(ctx, "logged out")
}

// AuthenticateWithBiometrics unlocks the session through the platform
// authenticator. A rejected challenge is not counted toward the lockout.
// ctx is passed to the authenticator, so cancelling it aborts the prompt.
func (m *SessionManager) AuthenticateWithBiometrics(ctx context.Context) bool {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	storeCtx := context.WithoutCancel(ctx)

	m.mu.RLock()
	available := m.state.IsBiometricsAvailable
	m.mu.RUnlock()

	if !m.bio.supported || !available {
		m.log.Debug(ctx, "biometric auth skipped", "reason", common.ErrBiometricsUnavailable)
		return false
	}
	if m.lockedNow(storeCtx) {
		m.log.Warn(ctx, "biometric auth rejected", "reason", common.ErrLocked)
		return false
	}

	if !m.bio.challenge(ctx) {
		return false
	}

	if !m.completeAuthentication(storeCtx, "") {
		return false
	}
	m.log.Info(ctx, "biometric auth succeeded")
	return true
}

// RefreshLock lifts an expired lock and reports whether the account is
// still locked.
func (m *SessionManager) RefreshLock(ctx context.Context) bool {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.lockedNow(context.WithoutCancel(ctx))
}
