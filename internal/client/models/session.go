package models

import "time"

// LockoutState is the persisted brute-force counter pair.
// LockedAt is zero until the threshold has been reached.
type LockoutState struct {
	FailedAttempts int
	LockedAt       time.Time
}

// SessionState is the in-memory view observed by the UI.
type SessionState struct {
	User                  *UserProfile
	IsAuthenticated       bool
	IsLoading             bool
	IsBiometricsAvailable bool
	FailedAttempts        int
	IsLocked              bool
}
