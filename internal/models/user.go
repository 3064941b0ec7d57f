package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format). Immutable.
	ID string

	// Email is the user's email address (unique).
	// Used for login and for looking up friends.
	Email string

	// DisplayName is the name shown to friends.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// AvatarURL is an optional reference to an uploaded avatar image.
	AvatarURL string

	// PaymentAddress is an optional payment address (e.g. a UPI id) friends
	// can pay to when settling up.
	PaymentAddress string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	DisplayName    *string
	AvatarURL      *string
	PaymentAddress *string
}

// Apply copies the non-nil fields of the update onto the user.
func (p ProfileUpdate) Apply(u *User) {
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	if p.PaymentAddress != nil {
		u.PaymentAddress = *p.PaymentAddress
	}
}
