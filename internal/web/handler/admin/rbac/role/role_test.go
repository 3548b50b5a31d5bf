package role_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler/admin/rbac/role"
)

func setupTest(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.Policy{},
		&models.UserRole{},
	))

	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})

	handler := role.Service{}
	handler.Init(app, &config.Config{}, db)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (int, map[string]json.RawMessage) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	decoded := map[string]json.RawMessage{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	return resp.StatusCode, decoded
}

func TestCreateAndGetRole(t *testing.T) {
	app, db := setupTest(t)

	perm := models.Permission{Name: "View Products", Resource: "/admin/products", Action: models.ActionRead}
	require.NoError(t, db.Create(&perm).Error)

	status, body := doJSON(t, app, fiber.MethodPost, role.Path, map[string]any{
		"name":        "Product Viewer",
		"description": "read only product access",
		"policies": []map[string]any{
			{"permission_id": perm.ID, "decision": "allow"},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)

	var created models.Role
	require.NoError(t, json.Unmarshal(body["role"], &created))
	assert.Equal(t, "Product Viewer", created.Name)

	status, body = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("%s/%d", role.Path, created.ID), nil)
	require.Equal(t, fiber.StatusOK, status)

	policies := decodePolicies(t, body)
	require.Len(t, policies, 1)
	assert.Equal(t, perm.ID, policies[0].Policy.PermissionID)
	assert.Equal(t, "View Products", policies[0].Permission.Name)
}

type policyEntry struct {
	Policy     models.Policy     `json:"policy"`
	Permission models.Permission `json:"permission"`
}

func decodePolicies(t *testing.T, body map[string]json.RawMessage) []policyEntry {
	t.Helper()

	var policies []policyEntry
	require.NoError(t, json.Unmarshal(body["policies"], &policies))

	return policies
}

func TestCreateRoleInvalidDecision(t *testing.T) {
	app, db := setupTest(t)

	perm := models.Permission{Name: "View Products", Resource: "/admin/products", Action: models.ActionRead}
	require.NoError(t, db.Create(&perm).Error)

	status, _ := doJSON(t, app, fiber.MethodPost, role.Path, map[string]any{
		"name": "Broken",
		"policies": []map[string]any{
			{"permission_id": perm.ID, "decision": "maybe"},
		},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestReplacePolicies(t *testing.T) {
	app, db := setupTest(t)

	permA := models.Permission{Name: "View Products", Resource: "/admin/products", Action: models.ActionRead}
	permB := models.Permission{Name: "View Orders", Resource: "/admin/orders", Action: models.ActionRead}
	require.NoError(t, db.Create(&permA).Error)
	require.NoError(t, db.Create(&permB).Error)

	testRole := models.Role{Name: "Viewer Role"}
	require.NoError(t, db.Create(&testRole).Error)

	status, body := doJSON(t, app, fiber.MethodPut,
		fmt.Sprintf("%s/%d/policies", role.Path, testRole.ID),
		map[string]any{
			"policies": []map[string]any{
				{"permission_id": permB.ID, "decision": "deny"},
			},
		})
	require.Equal(t, fiber.StatusOK, status)

	policies := decodePolicies(t, body)
	require.Len(t, policies, 1)
	assert.Equal(t, permB.ID, policies[0].Policy.PermissionID)
	assert.Equal(t, models.DecisionDeny, policies[0].Policy.Decision)
}

func TestUpdateSystemRole(t *testing.T) {
	app, db := setupTest(t)

	systemRole := models.Role{Name: "Super Admin", IsSystem: true}
	require.NoError(t, db.Create(&systemRole).Error)

	status, body := doJSON(t, app, fiber.MethodPut,
		fmt.Sprintf("%s/%d", role.Path, systemRole.ID),
		map[string]any{"name": "Renamed"})
	assert.Equal(t, fiber.StatusForbidden, status)

	var message string
	require.NoError(t, json.Unmarshal(body["message"], &message))
	assert.Equal(t, "System roles can not be modified", message)
}

func TestDeleteSystemRole(t *testing.T) {
	app, db := setupTest(t)

	systemRole := models.Role{Name: "Super Admin", IsSystem: true}
	require.NoError(t, db.Create(&systemRole).Error)

	status, body := doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("%s/%d", role.Path, systemRole.ID), nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	var message string
	require.NoError(t, json.Unmarshal(body["message"], &message))
	assert.Equal(t, "System roles can not be deleted", message)
}

func TestRoleNotFound(t *testing.T) {
	app, _ := setupTest(t)

	status, _ := doJSON(t, app, fiber.MethodGet, role.Path+"/999", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
