package role

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.Policy{},
		&models.UserRole{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedPermission(t *testing.T, db *gorm.DB, action models.Action, resource string) models.Permission {
	t.Helper()

	perm := models.Permission{
		Action:   action,
		Resource: resource,
		Name:     string(action) + " " + resource,
		Category: "Test",
	}
	require.NoError(t, db.Create(&perm).Error)

	return perm
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		roleName      string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			roleName:      "Viewer",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			roleName:      "",
			expectedError: ErrNameEmpty,
		},
		{
			name:     "successful create",
			dbParam:  db,
			roleName: "Viewer",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Create(tc.dbParam, tc.roleName, "read only access")

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, r)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.roleName, r.Name)
				assert.NotZero(t, r.ID)
				assert.False(t, r.IsSystem)
			}
		})
	}
}

func TestCreateWithPolicies(t *testing.T) {
	db := setupTestDB(t)

	permRead := seedPermission(t, db, models.ActionRead, "/admin/products")
	permWrite := seedPermission(t, db, models.ActionWrite, "/admin/products")

	r, err := CreateWithPolicies(db, "Editor", "can edit products", []PolicyInput{
		{PermissionID: permRead.ID, Decision: models.DecisionAllow},
		{PermissionID: permWrite.ID, Decision: models.DecisionAllow},
	})
	require.NoError(t, err)

	var policies []models.Policy
	require.NoError(t, db.Where("role_id = ?", r.ID).Find(&policies).Error)
	assert.Len(t, policies, 2)

	_, err = CreateWithPolicies(db, "Broken", "", []PolicyInput{
		{PermissionID: permRead.ID, Decision: "maybe"},
	})
	require.ErrorIs(t, err, ErrInvalidDecision)
}

func TestUpdateSystemRole(t *testing.T) {
	db := setupTestDB(t)

	system := models.Role{Name: "Super Admin", IsSystem: true}
	require.NoError(t, db.Create(&system).Error)

	_, err := Update(db, system.ID, "Renamed", "")
	require.ErrorIs(t, err, ErrSystemRole)

	// the role must be unchanged
	got, err := Get(db, system.ID)
	require.NoError(t, err)
	assert.Equal(t, "Super Admin", got.Name)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	perm := seedPermission(t, db, models.ActionRead, "/admin/orders")

	r, err := CreateWithPolicies(db, "Order Viewer", "", []PolicyInput{
		{PermissionID: perm.ID, Decision: models.DecisionAllow},
	})
	require.NoError(t, err)

	assignment := models.UserRole{UserID: "user_1", RoleID: r.ID}
	require.NoError(t, db.Create(&assignment).Error)

	require.NoError(t, Delete(db, r.ID))

	// cascade removed policies and assignments along with the role
	var policyCount, assignmentCount int64
	require.NoError(t, db.Model(&models.Policy{}).Where("role_id = ?", r.ID).Count(&policyCount).Error)
	require.NoError(t, db.Model(&models.UserRole{}).Where("role_id = ?", r.ID).Count(&assignmentCount).Error)
	assert.Zero(t, policyCount)
	assert.Zero(t, assignmentCount)

	_, err = Get(db, r.ID)
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestDeleteSystemRole(t *testing.T) {
	db := setupTestDB(t)

	system := models.Role{Name: "Super Admin", IsSystem: true}
	require.NoError(t, db.Create(&system).Error)

	require.ErrorIs(t, Delete(db, system.ID), ErrSystemRole)

	_, err := Get(db, system.ID)
	require.NoError(t, err, "system role must survive the delete attempt")
}

func TestDeleteNotFound(t *testing.T) {
	db := setupTestDB(t)

	require.ErrorIs(t, Delete(db, 4242), ErrRoleNotFound)
}

func TestGetWithPolicies(t *testing.T) {
	db := setupTestDB(t)

	perm := seedPermission(t, db, models.ActionRead, "/admin/customers")

	r, err := CreateWithPolicies(db, "Support", "", []PolicyInput{
		{PermissionID: perm.ID, Decision: models.DecisionAllow},
	})
	require.NoError(t, err)

	got, err := GetWithPolicies(db, r.ID)
	require.NoError(t, err)
	require.Len(t, got.Policies, 1)
	assert.Equal(t, perm.ID, got.Policies[0].Permission.ID)
	assert.Equal(t, models.DecisionAllow, got.Policies[0].Policy.Decision)
}
