// Package auth handles account credentials and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/expensecentral/internal/models"
)

// Authenticator verifies account credentials.
// Implementations decide what a credential is (password, OAuth token, passkey).
type Authenticator interface {
	// Register creates a new account for email. The email is normalized first.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account matching email and credential.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential before it is stored.
	ValidateCredential(credential string) error
}
