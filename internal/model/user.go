package model

import (
	"fmt"
	"strings"
	"time"
)

// User represents an account that owns plants.
//
// ID is assigned by the local store on insert and is not guaranteed to match
// the id of the corresponding remote document. Email is the natural key used
// to recognize an already-known user during import.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`

	// Optional profile fields. Empty string means not set.
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	ExternalAuthID  string `json:"external_auth_id,omitempty"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Validate checks if the User has valid field values.
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("email %q is not an address", u.Email)
	}
	return nil
}

// SetDefaults applies default values for optional fields.
func (u *User) SetDefaults() {
	now := time.Now().UnixMilli()
	if u.CreatedAt == 0 {
		u.CreatedAt = now
	}
	if u.UpdatedAt == 0 {
		u.UpdatedAt = now
	}
}

// Touch sets UpdatedAt to the current time.
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UnixMilli()
}
