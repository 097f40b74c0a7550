package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

type lockoutView struct {
	attempts int
	locked   bool
	lockedAt time.Time
}

func (m *SessionManager) expired(lockedAt time.Time) bool {
	return m.now().Sub(lockedAt) >= m.policy.LockDuration
}

// loadLockout reconstructs the lockout state from the persisted counters.
// An expired lock, an over-threshold counter without timestamp and
// corrupt counters are cleared. A read fault leaves them in place.
func (m *SessionManager) loadLockout(ctx context.Context) lockoutView {
	st, err := m.repo.Lockout(ctx)
	switch {
	case errors.Is(err, common.ErrCorruptRecord):
		m.log.Warn(ctx, "unreadable lockout counters, clearing", "error", err)
		m.clearPersistedLockout(ctx)
		return lockoutView{}
	case err != nil:
		// The counters may still be intact; start unlocked and keep them.
		m.log.Error(ctx, "read lockout counters", "error", err)
		return lockoutView{}
	}

	if st.FailedAttempts < m.policy.MaxFailedAttempts {
		return lockoutView{attempts: st.FailedAttempts}
	}

	if !st.LockedAt.IsZero() && !m.expired(st.LockedAt) {
		return lockoutView{attempts: st.FailedAttempts, locked: true, lockedAt: st.LockedAt}
	}

	m.log.Info(ctx, "lock expired", "locked_at", st.LockedAt)
	m.clearPersistedLockout(ctx)
	return lockoutView{}
}

// lockedNow reports whether the account is locked, lifting the lock first
// if its duration has elapsed.
func (m *SessionManager) lockedNow(ctx context.Context) bool {
	m.mu.RLock()
	locked, lockedAt := m.state.IsLocked, m.lockedAt
	m.mu.RUnlock()

	if !locked {
		return false
	}
	if !m.expired(lockedAt) {
		return true
	}

	m.clearPersistedLockout(ctx)
	m.update(func(s *models.SessionState) {
		s.IsLocked = false
		s.FailedAttempts = 0
		m.lockedAt = time.Time{}
	})
	m.log.Info(ctx, "lock expired", "locked_at", lockedAt)
	return false
}

// recordFailure counts one failed password login and locks the account
// once the threshold is reached. Persistence failures are logged; the
// in-memory counter is authoritative for the running process.
func (m *SessionManager) recordFailure(ctx context.Context) {
	now := m.now()

	var (
		attempts int
		locked   bool
	)
	m.update(func(s *models.SessionState) {
		s.FailedAttempts++
		attempts = s.FailedAttempts
		if attempts >= m.policy.MaxFailedAttempts {
			s.IsLocked = true
			m.lockedAt = now
			locked = true
		}
	})

	if err := m.repo.SaveFailedAttempts(ctx, attempts); err != nil {
		m.log.Error(ctx, "save failed attempts", "error", err)
	}
	m.log.Warn(ctx, "login failed", "failed_attempts", attempts)

	if !locked {
		return
	}
	if err := m.repo.SaveLockTimestamp(ctx, now); err != nil {
		m.log.Error(ctx, "save lock timestamp", "error", err)
	}
	m.log.Warn(ctx, "account locked", "until", now.Add(m.policy.LockDuration))
}

func (m *SessionManager) clearPersistedLockout(ctx context.Context) {
	if err := m.repo.ClearLockout(ctx); err != nil {
		m.log.Error(ctx, "clear lockout counters", "error", err)
	}
}

// LockedUntil returns the end of the current lock.
func (m *SessionManager) LockedUntil() (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.state.IsLocked {
		return time.Time{}, false
	}
	return m.lockedAt.Add(m.policy.LockDuration), true
}
