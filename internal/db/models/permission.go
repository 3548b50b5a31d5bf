package models

import (
	"time"

	"gorm.io/gorm"
)

// Action is the verb being authorized on a resource.
type Action string

const (
	// ActionRead covers viewing data (HTTP GET).
	ActionRead Action = "read"
	// ActionWrite covers creating and updating data (HTTP POST/PUT/PATCH).
	ActionWrite Action = "write"
	// ActionDelete covers removing data (HTTP DELETE).
	ActionDelete Action = "delete"
)

// Valid reports whether the action is one of the known verbs.
func (a Action) Valid() bool {
	switch a {
	case ActionRead, ActionWrite, ActionDelete:
		return true
	}

	return false
}

// Permission represents a protected capability in the authorization system:
// an (action, resource) pair with presentation metadata. Permissions are
// referenced by role policies, which carry the allow/deny decision.
// The (action, resource) pair is expected to be unique in practice, though
// this is not enforced by the schema; duplicate creation is a caller error.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// Action is the verb this permission authorizes (read, write, delete).
	Action Action `gorm:"type:varchar(20);not null" json:"action"`
	// Resource is the path-like identifier of the protected resource class,
	// e.g. "/admin/products". A trailing "/*" marks a wildcard pattern.
	Resource string `gorm:"size:255;not null" json:"resource"`
	// Name is a human-readable label, e.g. "View Products".
	Name string `gorm:"size:255;not null" json:"name"`
	// Description explains what this permission grants.
	Description string `gorm:"size:255" json:"description,omitempty"`
	// Category groups permissions for presentation (e.g. "Products", "Orders").
	Category string `gorm:"size:100;default:'General'" json:"category"`
	// IsSystem marks a seeded permission that cannot be edited or deleted.
	IsSystem bool `gorm:"default:false" json:"is_system"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the Permission model.
// This overrides GORM's default pluralized table naming.
func (Permission) TableName() string {
	return "rbac_permissions"
}
