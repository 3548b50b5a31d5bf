// Package pendingrole manages role promises for invited email addresses
// that have not yet become platform users. A grant is written when an
// invitation carrying a role is issued, and promoted into a real user-role
// assignment when the invite is accepted.
package pendingrole

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
)

var (
	// ErrEmailEmpty is returned when the email is empty.
	ErrEmailEmpty = errors.New("email cannot be empty")
	// ErrRoleNotFound is returned when granting a role that does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// NormalizeEmail lower-cases and trims an email address for matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Grant records a pending role for an email. Any previous grant for the same
// email is replaced; delete and insert run in one transaction.
func Grant(db *gorm.DB, email string, roleID uint) (*models.PendingRole, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailEmpty
	}

	var r models.Role
	result := db.First(&r, roleID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	grant := &models.PendingRole{
		Email:  email,
		RoleID: roleID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).Delete(&models.PendingRole{}).Error; err != nil {
			return err
		}

		return tx.Create(grant).Error
	})
	if err != nil {
		return nil, err
	}

	return grant, nil
}

// Consume looks up the pending grant for an email without deleting it.
// Returns nil when no grant exists.
func Consume(db *gorm.DB, email string) (*models.PendingRole, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailEmpty
	}

	var grant models.PendingRole
	result := db.Where("email = ?", email).First(&grant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &grant, nil
}

// Revoke deletes any pending grant for an email. Absence is a no-op.
func Revoke(db *gorm.DB, email string) error {
	if db == nil {
		return ErrDBNil
	}

	email = NormalizeEmail(email)
	if email == "" {
		return ErrEmailEmpty
	}

	return db.Where("email = ?", email).Delete(&models.PendingRole{}).Error
}

// GetAll retrieves every pending grant, newest first.
func GetAll(db *gorm.DB) ([]models.PendingRole, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var grants []models.PendingRole
	if err := db.Order("created_at DESC").Find(&grants).Error; err != nil {
		return nil, err
	}

	return grants, nil
}

// Promote converts the pending grant for an email into a user-role
// assignment for the given user, deleting the grant, in one transaction.
// Returns false and leaves state unchanged when no grant exists: the new
// user simply keeps full default access. Replaying promotion for an
// already-promoted email is therefore a safe no-op.
func Promote(db *gorm.DB, userID, email string) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}
	if userID == "" {
		return false, errors.New("user id cannot be empty")
	}

	grant, err := Consume(db, email)
	if err != nil {
		return false, err
	}
	if grant == nil {
		return false, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.UserRole
		result := tx.Where("user_id = ? AND role_id = ?", userID, grant.RoleID).First(&existing)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return result.Error
			}

			assignment := models.UserRole{
				UserID: userID,
				RoleID: grant.RoleID,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}

		return tx.Delete(grant).Error
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
