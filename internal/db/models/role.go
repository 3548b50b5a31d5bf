package models

import (
	"time"

	"gorm.io/gorm"
)

// Role represents a named, reusable bundle of policies in the role-based
// access control (RBAC) system. Roles are assigned to platform users; a user
// without any role keeps full access (default-open).
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique name of the role (e.g., "Super Admin", "Viewer").
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255" json:"description,omitempty"`
	// IsSystem indicates if this is a system role that cannot be edited or deleted.
	IsSystem bool `gorm:"default:false" json:"is_system"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "rbac_roles"
}
