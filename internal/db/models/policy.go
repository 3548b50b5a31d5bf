package models

import "time"

// Decision is the outcome a policy attaches to a permission.
type Decision string

const (
	// DecisionAllow grants the permission.
	DecisionAllow Decision = "allow"
	// DecisionDeny refuses the permission. Deny overrides allow when a user's
	// roles conflict on the same permission.
	DecisionDeny Decision = "deny"
)

// Valid reports whether the decision is a known value.
func (d Decision) Valid() bool {
	return d == DecisionAllow || d == DecisionDeny
}

// Policy binds one role to one permission with an allow/deny decision.
// Policies are managed as a whole set per role: editing a role's permissions
// replaces all of its policies in a single transaction.
type Policy struct {
	// ID is the unique identifier for the policy.
	ID uint `gorm:"primaryKey" json:"id"`
	// RoleID is the role this policy belongs to.
	RoleID uint `gorm:"column:role_id;not null;index" json:"role_id"`
	// PermissionID is the permission this policy applies to.
	PermissionID uint `gorm:"column:permission_id;not null;index" json:"permission_id"`
	// Decision is allow or deny.
	Decision Decision `gorm:"type:varchar(10);not null" json:"decision"`
	// CreatedAt is the timestamp when the policy was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the policy was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Policy model.
// This overrides GORM's default pluralized table naming.
func (Policy) TableName() string {
	return "rbac_policies"
}
