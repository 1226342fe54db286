package types

import "time"

// User represents an account in the system.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"id" bson:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" bson:"name"`

	// Email is the user's email address. Unique at the storage layer.
	Email string `json:"email" bson:"email"`

	// Role indicates the user's authorization level or role
	// within the system ("admin" or "user").
	Role string `json:"role" bson:"role"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" bson:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// LastLogin is the timestamp of the most recent successful login.
	LastLogin *time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`

	// IsActive marks whether the account may log in. Disabled accounts
	// fail authentication with the same response as bad credentials.
	IsActive bool `json:"is_active" bson:"is_active"`

	ProfilePhoto string `json:"profile_photo,omitempty" bson:"profile_photo,omitempty"`
	Bio          string `json:"bio,omitempty" bson:"bio,omitempty"`
	Phone        string `json:"phone,omitempty" bson:"phone,omitempty"`
	BirthDate    string `json:"birth_date,omitempty" bson:"birth_date,omitempty"`

	// ResetToken and ResetTokenExpiry track an outstanding password reset.
	// Never exposed in API responses.
	ResetToken       string     `json:"-" bson:"reset_token,omitempty"`
	ResetTokenExpiry *time.Time `json:"-" bson:"reset_token_expiry,omitempty"`
}

// ProfileUpdate carries the mutable profile fields of a partial update.
// Nil pointers leave the stored value untouched.
type ProfileUpdate struct {
	Name         *string `json:"name,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	BirthDate    *string `json:"birth_date,omitempty"`
	ProfilePhoto *string `json:"profile_photo,omitempty"`
}
