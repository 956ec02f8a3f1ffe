package models

import "time"

// Global role values. These are a display hint only: the permission model
// consults per-list participant roles, never this field.
const (
	GlobalRoleViewer = "viewer"
	GlobalRoleAdmin  = "admin"
)

// User represents a user account in the system
type User struct {
	Base

	// UID is the opaque stable identifier exposed outside the process.
	UID string `gorm:"uniqueIndex;not null;size:36" json:"uid"`

	// Authentication fields
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Google OAuth fields
	GoogleID       *string `gorm:"uniqueIndex" json:"google_id,omitempty"`
	GoogleImageURL *string `json:"google_image_url,omitempty"`

	// Profile information
	Name string `json:"name"`
	Role string `gorm:"default:'viewer'" json:"role"`

	// Account status
	IsActive     bool `gorm:"default:true" json:"is_active"`
	TokenVersion int  `gorm:"default:1" json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
