package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomerActivity is one entry in a customer's activity timeline, recorded
// from host platform events (orders, carts, fulfillments, notifications).
type CustomerActivity struct {
	// ID is the unique identifier for the activity entry.
	ID uint `gorm:"primaryKey" json:"id"`
	// CustomerID is the host-platform customer identity.
	CustomerID string `gorm:"column:customer_id;size:255;not null;index" json:"customer_id"`
	// EventType is the machine event name, e.g. "order.placed".
	EventType string `gorm:"size:100;not null;index" json:"event_type"`
	// EventName is the human-readable summary, e.g. "Placed order #1082".
	EventName string `gorm:"size:255;not null" json:"event_name"`
	// Description carries additional details for display.
	Description string `gorm:"size:255" json:"description,omitempty"`
	// Metadata holds related identifiers (order_id, cart_id, ...), JSON-encoded.
	Metadata string `gorm:"type:text" json:"metadata,omitempty"`
	// CreatedAt is the timestamp when the entry was recorded (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the entry was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the CustomerActivity model.
// This overrides GORM's default pluralized table naming.
func (CustomerActivity) TableName() string {
	return "customer_activities"
}
