// Package role provides CRUD operations for RBAC roles, including the
// transactional cascade delete over policies and user assignments.
package role

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
)

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrNameEmpty is returned when attempting to create a role without a name.
	ErrNameEmpty = errors.New("role name cannot be empty")
	// ErrSystemRole is returned on mutation of a system role.
	ErrSystemRole = errors.New("system roles cannot be modified or deleted")
	// ErrInvalidDecision is returned when a policy decision is not allow or deny.
	ErrInvalidDecision = errors.New("policy decision must be allow or deny")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// PolicyInput is one desired policy entry when creating or editing a role.
type PolicyInput struct {
	PermissionID uint            `json:"permission_id"`
	Decision     models.Decision `json:"decision"`
}

// WithPolicies bundles a role with its policies and the permissions they
// reference, for the role detail view.
type WithPolicies struct {
	Role     models.Role `json:"role"`
	Policies []struct {
		Policy     models.Policy     `json:"policy"`
		Permission models.Permission `json:"permission"`
	} `json:"policies"`
}

// Get retrieves a role by ID.
func Get(db *gorm.DB, id uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r models.Role
	result := db.First(&r, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return &r, nil
}

// GetByName retrieves a role by its unique name.
func GetByName(db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrNameEmpty
	}

	var r models.Role
	result := db.Where("name = ?", name).First(&r)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return &r, nil
}

// GetAll retrieves all roles ordered by name.
func GetAll(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role
	if err := db.Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

// Create adds a new role without policies.
func Create(db *gorm.DB, name, description string) (*models.Role, error) {
	return CreateWithPolicies(db, name, description, nil)
}

// CreateWithPolicies adds a new role and its initial policy set in a single
// transaction: either the role and every policy exist afterwards, or nothing
// does.
func CreateWithPolicies(db *gorm.DB, name, description string, policies []PolicyInput) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrNameEmpty
	}

	for _, p := range policies {
		if !p.Decision.Valid() {
			return nil, ErrInvalidDecision
		}
	}

	r := &models.Role{
		Name:        name,
		Description: description,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r).Error; err != nil {
			return err
		}

		for _, p := range policies {
			policy := models.Policy{
				RoleID:       r.ID,
				PermissionID: p.PermissionID,
				Decision:     p.Decision,
			}
			if err := tx.Create(&policy).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Update modifies a non-system role's name and description.
func Update(db *gorm.DB, id uint, name, description string) (*models.Role, error) {
	r, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if r.IsSystem {
		return nil, ErrSystemRole
	}

	if name != "" {
		r.Name = name
	}

	r.Description = description

	if err := db.Save(r).Error; err != nil {
		return nil, err
	}

	return r, nil
}

// Delete removes a non-system role. The cascade runs in one transaction:
// policies first, then user assignments, then the role row, so an
// interrupted delete never leaves orphaned policies behind.
func Delete(db *gorm.DB, id uint) error {
	r, err := Get(db, id)
	if err != nil {
		return err
	}
	if r.IsSystem {
		return ErrSystemRole
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.Policy{}).Error; err != nil {
			return err
		}

		if err := tx.Where("role_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}

		return tx.Delete(r).Error
	})
}

// GetWithPolicies retrieves a role together with its policies and the
// permissions they reference.
func GetWithPolicies(db *gorm.DB, id uint) (*WithPolicies, error) {
	r, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	var policies []models.Policy
	if err := db.Where("role_id = ?", id).Find(&policies).Error; err != nil {
		return nil, err
	}

	out := &WithPolicies{Role: *r}

	for _, p := range policies {
		var perm models.Permission
		result := db.First(&perm, p.PermissionID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				// policy pointing at a deleted permission, skip it
				continue
			}
			return nil, result.Error
		}

		out.Policies = append(out.Policies, struct {
			Policy     models.Policy     `json:"policy"`
			Permission models.Permission `json:"permission"`
		}{Policy: p, Permission: perm})
	}

	return out, nil
}
