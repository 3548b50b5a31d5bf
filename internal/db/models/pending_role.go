package models

import "time"

// PendingRole is a role promise for an email address that has not yet become
// a platform user. It is written when an invitation carrying a role is
// issued, and consumed when the invited email completes registration: the
// grant is converted into a UserRole and deleted. At most one pending role
// exists per email; granting again replaces the previous grant.
type PendingRole struct {
	// ID is the unique identifier for the pending grant.
	ID uint `gorm:"primaryKey" json:"id"`
	// Email is the invited address, normalized to lower case.
	Email string `gorm:"size:255;not null;index" json:"email"`
	// RoleID is the role to assign when the invite is accepted.
	RoleID uint `gorm:"column:role_id;not null" json:"role_id"`
	// CreatedAt is the timestamp when the grant was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the grant was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the PendingRole model.
// This overrides GORM's default pluralized table naming.
func (PendingRole) TableName() string {
	return "rbac_pending_roles"
}
