// Package activity records and serves the customer activity timeline.
package activity

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
)

const (
	// DefaultTimelineLimit caps timeline queries without an explicit limit.
	DefaultTimelineLimit = 50
)

var (
	// ErrCustomerIDEmpty is returned when the customer ID is empty.
	ErrCustomerIDEmpty = errors.New("customer id cannot be empty")
	// ErrEventTypeEmpty is returned when the event type is empty.
	ErrEventTypeEmpty = errors.New("event type cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Log records one activity entry for a customer.
func Log(db *gorm.DB, entry *models.CustomerActivity) (*models.CustomerActivity, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if entry.CustomerID == "" {
		return nil, ErrCustomerIDEmpty
	}
	if entry.EventType == "" {
		return nil, ErrEventTypeEmpty
	}

	if err := db.Create(entry).Error; err != nil {
		return nil, err
	}

	return entry, nil
}

// Timeline retrieves a customer's activity entries, newest first.
// A limit of 0 applies DefaultTimelineLimit.
func Timeline(db *gorm.DB, customerID string, limit int) ([]models.CustomerActivity, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if customerID == "" {
		return nil, ErrCustomerIDEmpty
	}

	if limit <= 0 {
		limit = DefaultTimelineLimit
	}

	var entries []models.CustomerActivity
	err := db.Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
