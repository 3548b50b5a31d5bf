package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
)

// seedPermission is one entry of the default permission catalog.
type seedPermission struct {
	name     string
	resource string
	action   models.Action
	category string
}

// actionLabel is used to build human readable permission names.
var actionLabel = map[models.Action]string{ //nolint:gochecknoglobals
	models.ActionRead:   "View",
	models.ActionWrite:  "Manage",
	models.ActionDelete: "Delete",
}

// catalogArea is one admin area getting a read/write/delete permission triple.
type catalogArea struct {
	label    string
	resource string
	category string
}

// defaultAreas lists the admin areas covered by the seeded catalog.
var defaultAreas = []catalogArea{ //nolint:gochecknoglobals
	{"Products", "/admin/products", "Products"},
	{"Collections", "/admin/collections", "Products"},
	{"Categories", "/admin/product-categories", "Products"},
	{"Orders", "/admin/orders", "Orders"},
	{"Draft Orders", "/admin/draft-orders", "Orders"},
	{"Carts", "/admin/carts", "Orders"},
	{"Customers", "/admin/customers", "Customers"},
	{"Customer Groups", "/admin/customer-groups", "Customers"},
	{"Promotions", "/admin/promotions", "Marketing"},
	{"Campaigns", "/admin/campaigns", "Marketing"},
	{"Price Lists", "/admin/price-lists", "Pricing"},
	{"Inventory", "/admin/inventory-items", "Inventory"},
	{"Reservations", "/admin/reservations", "Inventory"},
	{"Store Settings", "/admin/stores", "Settings"},
	{"Regions", "/admin/regions", "Settings"},
	{"Shipping", "/admin/shipping-options", "Settings"},
	{"Email Templates", "/admin/email-templates", "Settings"},
	{"Users", "/admin/users", "Administration"},
	{"Access Control", "/admin/rbac", "Administration"},
}

// defaultPermissions expands the areas into the seeded catalog.
func defaultPermissions() []seedPermission {
	perms := make([]seedPermission, 0, len(defaultAreas)*3) //nolint:mnd

	for _, area := range defaultAreas {
		for _, action := range []models.Action{models.ActionRead, models.ActionWrite, models.ActionDelete} {
			perms = append(perms, seedPermission{
				name:     actionLabel[action] + " " + area.label,
				resource: area.resource,
				action:   action,
				category: area.category,
			})
		}
	}

	return perms
}

// Seed writes the default permission catalog and the system roles. It is
// idempotent: existing rows are left untouched, so boot can run it every
// time.
func Seed(db *gorm.DB) error {
	if err := seedPermissions(db); err != nil {
		return err
	}

	return seedRoles(db)
}

func seedPermissions(db *gorm.DB) error {
	for _, p := range defaultPermissions() {
		perm := models.Permission{
			Name:     p.name,
			Resource: p.resource,
			Action:   p.action,
			Category: p.category,
			IsSystem: true,
		}

		err := db.Where(&models.Permission{Resource: p.resource, Action: p.action}).
			FirstOrCreate(&perm).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// systemRole describes one seeded role and which permissions it allows.
type systemRole struct {
	name        string
	description string
	allows      func(perm models.Permission) bool
}

func systemRoles() []systemRole {
	return []systemRole{
		{
			name:        "Super Admin",
			description: "Full access to every admin area including access control",
			allows:      func(models.Permission) bool { return true },
		},
		{
			name:        "Store Manager",
			description: "Full access to store operations, no access control management",
			allows: func(perm models.Permission) bool {
				return perm.Category != "Administration"
			},
		},
		{
			name:        "Support",
			description: "Read access everywhere, can manage orders and customers",
			allows: func(perm models.Permission) bool {
				if perm.Action == models.ActionRead {
					return true
				}

				return perm.Action == models.ActionWrite &&
					(perm.Category == "Orders" || perm.Category == "Customers")
			},
		},
		{
			name:        "Viewer",
			description: "Read-only access to every admin area",
			allows: func(perm models.Permission) bool {
				return perm.Action == models.ActionRead
			},
		},
	}
}

func seedRoles(db *gorm.DB) error {
	var catalog []models.Permission
	if err := db.Find(&catalog).Error; err != nil {
		return err
	}

	for _, sr := range systemRoles() {
		var existing models.Role

		err := db.Where(&models.Role{Name: sr.name}).First(&existing).Error
		if err == nil {
			continue // role already seeded, keep its policies as they are
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		newRole := models.Role{
			Name:        sr.name,
			Description: sr.description,
			IsSystem:    true,
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&newRole).Error; err != nil {
				return err
			}

			for _, perm := range catalog {
				if !sr.allows(perm) {
					continue
				}

				p := models.Policy{
					RoleID:       newRole.ID,
					PermissionID: perm.ID,
					Decision:     models.DecisionAllow,
				}
				if err := tx.Create(&p).Error; err != nil {
					return err
				}
			}

			return nil
		})
		if txErr != nil {
			return txErr
		}

		log.Info().Str("role", sr.name).Msg("system role seeded")
	}

	return nil
}
