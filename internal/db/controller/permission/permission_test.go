package permission

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

	err = db.AutoMigrate(&models.Permission{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		perm          models.Permission
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			perm:          models.Permission{Action: models.ActionRead, Resource: "/admin/products", Name: "View Products"},
			expectedError: ErrDBNil,
		},
		{
			name:          "invalid action",
			dbParam:       db,
			perm:          models.Permission{Action: "execute", Resource: "/admin/products", Name: "x"},
			expectedError: ErrInvalidAction,
		},
		{
			name:          "empty resource",
			dbParam:       db,
			perm:          models.Permission{Action: models.ActionRead, Name: "x"},
			expectedError: ErrResourceEmpty,
		},
		{
			name:          "empty name",
			dbParam:       db,
			perm:          models.Permission{Action: models.ActionRead, Resource: "/admin/products"},
			expectedError: ErrNameEmpty,
		},
		{
			name:    "successful create with default category",
			dbParam: db,
			perm:    models.Permission{Action: models.ActionRead, Resource: "/admin/products", Name: "View Products"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			perm := tc.perm
			created, err := Create(tc.dbParam, &perm)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
				assert.NotZero(t, created.ID)
				assert.Equal(t, DefaultCategory, created.Category)
			}
		})
	}
}

func TestListFilter(t *testing.T) {
	db := setupTestDB(t)

	seed := []models.Permission{
		{Action: models.ActionRead, Resource: "/admin/products", Name: "View Products", Category: "Products"},
		{Action: models.ActionWrite, Resource: "/admin/products", Name: "Edit Products", Category: "Products"},
		{Action: models.ActionRead, Resource: "/admin/orders", Name: "View Orders", Category: "Orders"},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	perms, err := List(db, Filter{Action: models.ActionRead})
	require.NoError(t, err)
	assert.Len(t, perms, 2)

	perms, err = List(db, Filter{Category: "Orders"})
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, "/admin/orders", perms[0].Resource)

	perms, err = List(db, Filter{})
	require.NoError(t, err)
	assert.Len(t, perms, 3)
}

func TestByCategory(t *testing.T) {
	db := setupTestDB(t)

	seed := []models.Permission{
		{Action: models.ActionRead, Resource: "/admin/products", Name: "View Products", Category: "Products"},
		{Action: models.ActionWrite, Resource: "/admin/products", Name: "Edit Products", Category: "Products"},
		{Action: models.ActionRead, Resource: "/admin/orders", Name: "View Orders", Category: "Orders"},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	grouped, err := ByCategory(db)
	require.NoError(t, err)
	assert.Len(t, grouped, 2)
	assert.Len(t, grouped["Products"], 2)
	assert.Len(t, grouped["Orders"], 1)
}

func TestSystemPermissionProtection(t *testing.T) {
	db := setupTestDB(t)

	system := models.Permission{
		Action:   models.ActionRead,
		Resource: "/admin/rbac",
		Name:     "View RBAC Settings",
		IsSystem: true,
	}
	require.NoError(t, db.Create(&system).Error)

	_, err := Update(db, system.ID, &models.Permission{Name: "Renamed"})
	require.ErrorIs(t, err, ErrSystemPermission)

	require.ErrorIs(t, Delete(db, system.ID), ErrSystemPermission)

	// entity unchanged
	got, err := Get(db, system.ID)
	require.NoError(t, err)
	assert.Equal(t, "View RBAC Settings", got.Name)
}

func TestUpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)

	perm := models.Permission{Action: models.ActionRead, Resource: "/admin/reports", Name: "View Reports"}
	require.NoError(t, db.Create(&perm).Error)

	updated, err := Update(db, perm.ID, &models.Permission{Name: "View All Reports", Description: "includes drafts"})
	require.NoError(t, err)
	assert.Equal(t, "View All Reports", updated.Name)
	assert.Equal(t, "includes drafts", updated.Description)
	assert.Equal(t, models.ActionRead, updated.Action, "unset fields keep their value")

	require.NoError(t, Delete(db, perm.ID))

	_, err = Get(db, perm.ID)
	require.ErrorIs(t, err, ErrPermissionNotFound)
}
