package cryptox

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credential storage schemes.
const (
	SchemePlain  = "plain"
	SchemeBcrypt = "bcrypt"
)

// ProtectPassword returns the value to persist for password under scheme.
// The plain scheme returns the password unchanged.
func ProtectPassword(scheme, password string) (string, error) {
	switch scheme {
	case "", SchemePlain:
		return password, nil
	case SchemeBcrypt:
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(h), nil
	default:
		return "", fmt.Errorf("unknown credential scheme %q", scheme)
	}
}

// VerifyPassword reports whether candidate matches the stored value written
// by ProtectPassword with the same scheme. Unknown schemes never match.
func VerifyPassword(scheme, stored, candidate string) bool {
	switch scheme {
	case "", SchemePlain:
		return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
	case SchemeBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	default:
		return false
	}
}
