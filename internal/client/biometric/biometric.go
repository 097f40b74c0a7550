// Package biometric defines the contract of the platform biometric
// authenticator and the implementations available to the CLI.
package biometric

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by authenticators on platforms without
// biometric APIs.
var ErrUnsupported = errors.New("biometrics not supported on this platform")

// Reasons reported in Result.Error.
const (
	ReasonUserCancel   = "user_cancel"
	ReasonUserFallback = "user_fallback"
	ReasonNotEnrolled  = "not_enrolled"
)

// Prompt configures the challenge shown to the user.
type Prompt struct {
	Message       string
	CancelLabel   string
	FallbackLabel string
}

// Result is the outcome of a challenge. Error carries the reason when
// Success is false.
type Result struct {
	Success bool
	Error   string
}

// Authenticator is the platform biometric service.
type Authenticator interface {
	HasHardware(ctx context.Context) (bool, error)
	IsEnrolled(ctx context.Context) (bool, error)
	Authenticate(ctx context.Context, p Prompt) (Result, error)
}

// Unsupported is the Authenticator of platforms lacking biometric APIs.
type Unsupported struct{}

func (Unsupported) HasHardware(context.Context) (bool, error) { return false, nil }
func (Unsupported) IsEnrolled(context.Context) (bool, error)  { return false, nil }

func (Unsupported) Authenticate(context.Context, Prompt) (Result, error) {
	return Result{}, ErrUnsupported
}
