// Package auth provides account registration, password verification and
// session tokens for trip members.
package auth

import (
	"context"

	"github.com/mmynk/tripledger/internal/models"
)

// Authenticator registers and verifies trip members.
// Implementations decide what the credential is (a password for now).
type Authenticator interface {
	// Register creates a new account. displayName becomes the nickname shown
	// in balances and settlement suggestions.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential against the implementation's rules.
	ValidateCredential(credential string) error
}
