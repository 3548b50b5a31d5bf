// Package permission provides CRUD operations for the permission catalog.
package permission

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
)

const (
	// DefaultCategory is assigned when a permission is created without one.
	DefaultCategory = "General"
)

var (
	// ErrPermissionNotFound is returned when a permission is not found.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrInvalidAction is returned when the action is not read, write or delete.
	ErrInvalidAction = errors.New("action must be one of: read, write, delete")
	// ErrResourceEmpty is returned when the resource is empty.
	ErrResourceEmpty = errors.New("permission resource cannot be empty")
	// ErrNameEmpty is returned when the display name is empty.
	ErrNameEmpty = errors.New("permission name cannot be empty")
	// ErrSystemPermission is returned on mutation of a system permission.
	ErrSystemPermission = errors.New("system permissions cannot be modified or deleted")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Action   models.Action
	Resource string
	Category string
}

// Get retrieves a permission by ID.
func Get(db *gorm.DB, id uint) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var perm models.Permission
	result := db.First(&perm, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, result.Error
	}

	return &perm, nil
}

// List retrieves permissions matching the filter, ordered by category and name.
func List(db *gorm.DB, filter Filter) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := db.Model(&models.Permission{})
	if filter.Action != "" {
		tx = tx.Where("action = ?", filter.Action)
	}
	if filter.Resource != "" {
		tx = tx.Where("resource = ?", filter.Resource)
	}
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}

	var perms []models.Permission
	if err := tx.Order("category ASC, name ASC").Find(&perms).Error; err != nil {
		return nil, err
	}

	return perms, nil
}

// ByCategory groups the whole catalog by category for presentation.
// Grouping is a pure projection, not a stored relationship.
func ByCategory(db *gorm.DB) (map[string][]models.Permission, error) {
	perms, err := List(db, Filter{})
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.Permission)
	for _, p := range perms {
		category := p.Category
		if category == "" {
			category = DefaultCategory
		}

		grouped[category] = append(grouped[category], p)
	}

	return grouped, nil
}

// Create adds a new permission to the catalog.
func Create(db *gorm.DB, perm *models.Permission) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if !perm.Action.Valid() {
		return nil, ErrInvalidAction
	}
	if perm.Resource == "" {
		return nil, ErrResourceEmpty
	}
	if perm.Name == "" {
		return nil, ErrNameEmpty
	}

	if perm.Category == "" {
		perm.Category = DefaultCategory
	}

	if err := db.Create(perm).Error; err != nil {
		return nil, err
	}

	return perm, nil
}

// Update modifies a non-system permission. Empty fields are left unchanged,
// except Description which is always written.
func Update(db *gorm.DB, id uint, fields *models.Permission) (*models.Permission, error) {
	perm, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if perm.IsSystem {
		return nil, ErrSystemPermission
	}

	if fields.Action != "" {
		if !fields.Action.Valid() {
			return nil, ErrInvalidAction
		}

		perm.Action = fields.Action
	}

	if fields.Resource != "" {
		perm.Resource = fields.Resource
	}

	if fields.Name != "" {
		perm.Name = fields.Name
	}

	if fields.Category != "" {
		perm.Category = fields.Category
	}

	perm.Description = fields.Description

	if err := db.Save(perm).Error; err != nil {
		return nil, err
	}

	return perm, nil
}

// Delete removes a non-system permission from the catalog.
func Delete(db *gorm.DB, id uint) error {
	perm, err := Get(db, id)
	if err != nil {
		return err
	}
	if perm.IsSystem {
		return ErrSystemPermission
	}

	return db.Delete(perm).Error
}
