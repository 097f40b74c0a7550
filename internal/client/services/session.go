package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// newSessionToken derives the session marker from its creation time.
func newSessionToken(now time.Time) string {
	return timex.FormatMillis(now)
}

// minimalProfile is attached when credentials verify but no profile record
// exists.
func minimalProfile(email string, now time.Time) *models.UserProfile {
	return &models.UserProfile{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Email:     email,
		CreatedAt: now.UTC(),
	}
}

// loadSession returns the profile of the persisted session, or nil.
// A marker without a readable profile is deleted.
func (m *SessionManager) loadSession(ctx context.Context) *models.UserProfile {
	if _, err := m.repo.SessionToken(ctx); err != nil {
		m.logReadFault(ctx, common.KeySessionToken, err)
		return nil
	}

	user, err := m.repo.Profile(ctx)
	switch {
	case err == nil:
		return user
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrCorruptRecord):
		m.log.Warn(ctx, "session marker without profile, clearing", "error", err)
		if err := m.repo.DeleteSessionToken(ctx); err != nil {
			m.log.Error(ctx, "delete session marker", "error", err)
		}
		return nil
	default:
		m.logReadFault(ctx, common.KeyUserData, err)
		return nil
	}
}

// completeAuthentication is the common success path of password and
// biometric authentication: reset lockout, issue a session marker, attach
// the profile. email seeds a minimal profile when none is stored; when
// empty the email of the stored credentials is used. Without any identity
// to attach, the marker is withdrawn and false is returned.
func (m *SessionManager) completeAuthentication(ctx context.Context, email string) bool {
	now := m.now()

	if err := m.repo.ClearLockout(ctx); err != nil {
		m.log.Error(ctx, "clear lockout counters", "error", err)
	}
	m.update(func(s *models.SessionState) {
		s.FailedAttempts = 0
		s.IsLocked = false
		m.lockedAt = time.Time{}
	})

	if err := m.repo.SaveSessionToken(ctx, newSessionToken(now)); err != nil {
		m.log.Error(ctx, "save session marker", "error", err)
	}

	user, err := m.repo.Profile(ctx)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrCorruptRecord):
		if email == "" {
			email = m.credentialEmail(ctx)
		}
		if email == "" {
			m.log.Warn(ctx, "no identity to attach to session")
			if err := m.repo.DeleteSessionToken(ctx); err != nil {
				m.log.Error(ctx, "delete session marker", "error", err)
			}
			return false
		}
		user = minimalProfile(email, now)
		m.log.Warn(ctx, "profile missing, storing minimal profile", "error", err, "user_id", user.ID)
		if err := m.repo.SaveProfile(ctx, user); err != nil {
			m.log.Error(ctx, "save minimal profile", "error", err)
		}
	default:
		// The stored profile may still be intact; keep it and serve a
		// minimal one from memory.
		m.logReadFault(ctx, common.KeyUserData, err)
		if email == "" {
			email = m.credentialEmail(ctx)
		}
		user = minimalProfile(email, now)
	}

	m.update(func(s *models.SessionState) {
		s.User = user
		s.IsAuthenticated = true
	})
	return true
}

func (m *SessionManager) credentialEmail(ctx context.Context) string {
	creds, err := m.repo.Credentials(ctx)
	if err != nil {
		m.logReadFault(ctx, common.KeyUserCredentials, err)
		return ""
	}
	return creds.Email
}

// logReadFault logs a failed read. Absent records are expected and only
// logged at debug level.
func (m *SessionManager) logReadFault(ctx context.Context, key string, err error) {
	if errors.Is(err, common.ErrNotFound) {
		m.log.Debug(ctx, "record absent", "key", key)
		return
	}
	m.log.Error(ctx, "read record", "key", key, "error", err)
}
