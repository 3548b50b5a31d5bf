// Package userrole provides operations on user-role assignments. User IDs
// are opaque identities owned by the host platform.
package userrole

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
)

var (
	// ErrRoleNotFound is returned when assigning a role that does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrUserIDEmpty is returned when the user ID is empty.
	ErrUserIDEmpty = errors.New("user id cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Assign gives a role to a user. The role must exist. Assigning an
// already-held role is a no-op and returns the existing assignment.
func Assign(db *gorm.DB, userID string, roleID uint) (*models.UserRole, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if userID == "" {
		return nil, ErrUserIDEmpty
	}

	var r models.Role
	result := db.First(&r, roleID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	var existing models.UserRole
	result = db.Where("user_id = ? AND role_id = ?", userID, roleID).First(&existing)
	if result.Error == nil {
		return &existing, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	assignment := &models.UserRole{
		UserID: userID,
		RoleID: roleID,
	}
	if err := db.Create(assignment).Error; err != nil {
		return nil, err
	}

	return assignment, nil
}

// Remove takes a role away from a user. Removing an assignment that does not
// exist is a no-op.
func Remove(db *gorm.DB, userID string, roleID uint) error {
	if db == nil {
		return ErrDBNil
	}
	if userID == "" {
		return ErrUserIDEmpty
	}

	return db.Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&models.UserRole{}).Error
}

// RemoveAll deletes every assignment held by a user. Used by the
// user-deleted lifecycle hook; a user with no assignments is a no-op.
func RemoveAll(db *gorm.DB, userID string) error {
	if db == nil {
		return ErrDBNil
	}
	if userID == "" {
		return ErrUserIDEmpty
	}

	return db.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error
}

// RolesForUser retrieves the roles held by a user.
func RolesForUser(db *gorm.DB, userID string) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if userID == "" {
		return nil, ErrUserIDEmpty
	}

	var roles []models.Role
	err := db.Table("rbac_roles").
		Joins("JOIN rbac_user_roles ON rbac_user_roles.role_id = rbac_roles.id").
		Where("rbac_user_roles.user_id = ? AND rbac_roles.deleted_at IS NULL", userID).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}

	return roles, nil
}

// AssignmentsForRole retrieves every assignment of a role.
func AssignmentsForRole(db *gorm.DB, roleID uint) ([]models.UserRole, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var assignments []models.UserRole
	if err := db.Where("role_id = ?", roleID).Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

// AllUsersWithRoles maps every assigned user ID to the roles they hold.
// Users without assignments do not appear; they have full default access.
func AllUsersWithRoles(db *gorm.DB) (map[string][]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var assignments []models.UserRole
	if err := db.Find(&assignments).Error; err != nil {
		return nil, err
	}

	var roles []models.Role
	if err := db.Find(&roles).Error; err != nil {
		return nil, err
	}

	roleByID := make(map[uint]models.Role, len(roles))
	for _, r := range roles {
		roleByID[r.ID] = r
	}

	out := make(map[string][]models.Role)
	for _, a := range assignments {
		r, ok := roleByID[a.RoleID]
		if !ok {
			continue
		}

		out[a.UserID] = append(out[a.UserID], r)
	}

	return out, nil
}
