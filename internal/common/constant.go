// Package common contains shared constants, sentinel errors and small helpers
// used across gophauth components.
package common

import "time"

// Logical key namespace of the identity store. The manager is the only
// writer of these keys.
const (
	KeyUserData        = "user_data"
	KeyUserCredentials = "user_credentials"
	KeySessionToken    = "session_token"
	KeyFailedAttempts  = "failed_attempts"
	KeyLockTimestamp   = "lock_timestamp"
)

// Default lockout policy.
const (
	DefaultMaxFailedAttempts = 5
	DefaultLockDuration      = 5 * time.Minute
)

// Fixed configuration of the biometric challenge.
const (
	BiometricPromptMessage = "Authenticate to access your account"
	BiometricCancelLabel   = "Cancel"
	BiometricFallbackLabel = "Use password instead"
)
