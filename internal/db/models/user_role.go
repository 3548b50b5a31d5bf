package models

import "time"

// UserRole assigns a role to a platform user. The user ID is an opaque
// identity issued by the host platform's user service; this application never
// creates or deletes users itself, it only reacts to lifecycle events.
// A user may hold any number of roles; assigning an already-held role is a
// no-op.
type UserRole struct {
	// ID is the unique identifier for the assignment.
	ID uint `gorm:"primaryKey" json:"id"`
	// UserID is the opaque host-platform user identity.
	UserID string `gorm:"column:user_id;size:255;not null;index" json:"user_id"`
	// RoleID is the assigned role.
	RoleID uint `gorm:"column:role_id;not null;index" json:"role_id"`
	// CreatedAt is the timestamp when the assignment was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the assignment was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the UserRole model.
// This overrides GORM's default pluralized table naming.
func (UserRole) TableName() string {
	return "rbac_user_roles"
}
