package models

import (
	"time"

	"gorm.io/gorm"
)

// EmailTemplate is an editable notification template bound to a platform
// event. Subject and HTML body may reference variables as {{path.to.value}},
// substituted at render time.
type EmailTemplate struct {
	// ID is the unique identifier for the template.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the template's display name.
	Name string `gorm:"size:255;not null" json:"name"`
	// Subject is the email subject line, may contain {{variables}}.
	Subject string `gorm:"size:255;not null" json:"subject"`
	// Description explains when the template is used.
	Description string `gorm:"size:255" json:"description,omitempty"`
	// EventName is the platform event this template serves (e.g. "order.placed").
	EventName string `gorm:"size:100;not null;index" json:"event_name"`
	// HTMLContent is the email body, may contain {{variables}}.
	HTMLContent string `gorm:"type:text;not null" json:"html_content"`
	// IsActive controls whether the template is picked up for its event.
	IsActive bool `gorm:"default:true" json:"is_active"`
	// Variables lists the variable paths the template expects, JSON-encoded.
	Variables string `gorm:"type:text" json:"variables,omitempty"`
	// CreatedAt is the timestamp when the template was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the template was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the EmailTemplate model.
// This overrides GORM's default pluralized table naming.
func (EmailTemplate) TableName() string {
	return "email_templates"
}
