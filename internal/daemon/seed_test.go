package daemon

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/userrole"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/rbac"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.Policy{},
		&models.UserRole{},
		&models.PendingRole{},
	))

	return db
}

func TestSeedIdempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db))

	var permCount, roleCount, policyCount int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&permCount).Error)
	require.NoError(t, db.Model(&models.Role{}).Count(&roleCount).Error)
	require.NoError(t, db.Model(&models.Policy{}).Count(&policyCount).Error)

	assert.Equal(t, int64(len(defaultPermissions())), permCount)
	assert.Equal(t, int64(len(systemRoles())), roleCount)
	assert.Positive(t, policyCount)

	// second run must not duplicate anything
	require.NoError(t, Seed(db))

	var permCount2, roleCount2, policyCount2 int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&permCount2).Error)
	require.NoError(t, db.Model(&models.Role{}).Count(&roleCount2).Error)
	require.NoError(t, db.Model(&models.Policy{}).Count(&policyCount2).Error)

	assert.Equal(t, permCount, permCount2)
	assert.Equal(t, roleCount, roleCount2)
	assert.Equal(t, policyCount, policyCount2)
}

func TestSeededRolesAreSystem(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Seed(db))

	var roles []models.Role
	require.NoError(t, db.Find(&roles).Error)

	for _, r := range roles {
		assert.True(t, r.IsSystem, "role %s should be a system role", r.Name)
	}
}

func TestSeededViewerIsReadOnly(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Seed(db))

	var viewer models.Role
	require.NoError(t, db.Where(&models.Role{Name: "Viewer"}).First(&viewer).Error)

	_, err := userrole.Assign(db, "user_viewer", viewer.ID)
	require.NoError(t, err)

	service := rbac.NewService(db)

	read, err := service.CheckPermission("user_viewer", models.ActionRead, "/admin/orders")
	require.NoError(t, err)
	assert.True(t, read.Allowed)

	write, err := service.CheckPermission("user_viewer", models.ActionWrite, "/admin/orders")
	require.NoError(t, err)
	assert.False(t, write.Allowed)
}

func TestSeededCatalogCoversAbandonedCarts(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Seed(db))

	var superAdmin models.Role
	require.NoError(t, db.Where(&models.Role{Name: "Super Admin"}).First(&superAdmin).Error)

	_, err := userrole.Assign(db, "user_admin", superAdmin.ID)
	require.NoError(t, err)

	service := rbac.NewService(db)

	result, err := service.CheckPermission("user_admin", models.ActionRead, "/admin/carts/abandoned")
	require.NoError(t, err)
	assert.True(t, result.Allowed, "super admin should read the abandoned carts listing: %s", result.Reason)

	var viewer models.Role
	require.NoError(t, db.Where(&models.Role{Name: "Viewer"}).First(&viewer).Error)

	_, err = userrole.Assign(db, "user_viewer", viewer.ID)
	require.NoError(t, err)

	result, err = service.CheckPermission("user_viewer", models.ActionRead, "/admin/carts/abandoned")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestSeededSuperAdminHasFullAccess(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Seed(db))

	var superAdmin models.Role
	require.NoError(t, db.Where(&models.Role{Name: "Super Admin"}).First(&superAdmin).Error)

	_, err := userrole.Assign(db, "user_admin", superAdmin.ID)
	require.NoError(t, err)

	service := rbac.NewService(db)

	for _, action := range []models.Action{models.ActionRead, models.ActionWrite, models.ActionDelete} {
		result, err := service.CheckPermission("user_admin", action, "/admin/rbac/roles")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "super admin should %s access control", action)
	}
}
