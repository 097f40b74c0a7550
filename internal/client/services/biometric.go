package services

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/client/biometric"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// biometricBridge gates access to the platform authenticator.
type biometricBridge struct {
	supported bool
	auth      biometric.Authenticator
	log       logging.Logger
}

var challengePrompt = biometric.Prompt{
	Message:       common.BiometricPromptMessage,
	CancelLabel:   common.BiometricCancelLabel,
	FallbackLabel: common.BiometricFallbackLabel,
}

// available reports hardware presence and enrolment. Errors read as false.
func (b *biometricBridge) available(ctx context.Context) bool {
	if !b.supported {
		return false
	}

	hw, err := b.auth.HasHardware(ctx)
	if err != nil {
		b.log.Error(ctx, "check biometric hardware", "error", err)
		return false
	}
	enrolled, err := b.auth.IsEnrolled(ctx)
	if err != nil {
		b.log.Error(ctx, "check biometric enrolment", "error", err)
		return false
	}
	return hw && enrolled
}

// challenge runs one authentication prompt. Errors read as a rejection.
func (b *biometricBridge) challenge(ctx context.Context) bool {
	res, err := b.auth.Authenticate(ctx, challengePrompt)
	if err != nil {
		b.log.Error(ctx, "biometric authentication", "error", err)
		return false
	}
	if !res.Success {
		b.log.Info(ctx, "biometric challenge rejected", "reason", res.Error)
	}
	return res.Success
}
