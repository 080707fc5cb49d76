// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
// Watchers draft articles; moderators run the editorial pipeline.
type Role string

const (
	RoleReader    Role = "reader"
	RoleWatcher   Role = "watcher"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// User represents a platform account with authentication and 2FA fields.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsStaff reports whether the user belongs to the editorial staff.
// Staff accounts bypass the paywall and must complete 2FA enrollment.
func (u *User) IsStaff() bool {
	return u.Role == RoleWatcher || u.Role == RoleModerator || u.Role == RoleAdmin
}

// CanModerate reports whether the user may trigger moderator transitions
// (approve, reject, publish, unpublish, placement updates).
func (u *User) CanModerate() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// Needs2FASetup returns true if a staff user has not completed 2FA enrollment.
// Staff must set up 2FA on their first login; readers never enroll.
func (u *User) Needs2FASetup() bool {
	return u.IsStaff() && !u.TOTPEnabled
}
