// Package policy provides operations on role policies. Policies are only
// managed as a whole set per role: the admin UI always submits the role's
// complete desired policy set, so Replace deletes and rebuilds instead of
// patching.
package policy

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
)

var (
	// ErrInvalidDecision is returned when a decision is not allow or deny.
	ErrInvalidDecision = errors.New("policy decision must be allow or deny")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	RoleID       uint
	RoleIDs      []uint
	PermissionID uint
}

// Input is one desired policy entry for Replace.
type Input struct {
	PermissionID uint            `json:"permission_id"`
	Decision     models.Decision `json:"decision"`
}

// List retrieves policies matching the filter.
func List(db *gorm.DB, filter Filter) ([]models.Policy, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := db.Model(&models.Policy{})
	if filter.RoleID != 0 {
		tx = tx.Where("role_id = ?", filter.RoleID)
	}
	if len(filter.RoleIDs) > 0 {
		tx = tx.Where("role_id IN ?", filter.RoleIDs)
	}
	if filter.PermissionID != 0 {
		tx = tx.Where("permission_id = ?", filter.PermissionID)
	}

	var policies []models.Policy
	if err := tx.Find(&policies).Error; err != nil {
		return nil, err
	}

	return policies, nil
}

// Replace deletes every existing policy for the role and inserts the given
// set, all in one transaction. An empty set leaves the role with no policies.
func Replace(db *gorm.DB, roleID uint, policies []Input) error {
	if db == nil {
		return ErrDBNil
	}

	for _, p := range policies {
		if !p.Decision.Valid() {
			return ErrInvalidDecision
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&models.Policy{}).Error; err != nil {
			return err
		}

		for _, p := range policies {
			record := models.Policy{
				RoleID:       roleID,
				PermissionID: p.PermissionID,
				Decision:     p.Decision,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
