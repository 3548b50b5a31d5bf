// Package userrole implements the JSON API for user-role assignments.
package userrole

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/role"
	controller "github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/userrole"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler"
)

const (
	// Path is the base path of the user-role assignment API.
	Path = handler.RootPath + "admin/rbac/users"
)

// Service is the user-role assignment handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the user-role assignment handler.
var Handler = Service{} //nolint:gochecknoglobals

// assignRequest is the JSON body for assigning a role to a user.
type assignRequest struct {
	RoleID uint `json:"role_id" validate:"required"`
}

// Init initializes the user-role assignment handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Get(Path, s.List)
	app.Get(Path+"/:userID/roles", s.RolesForUser)
	app.Post(Path+"/:userID/roles", s.Assign)
	app.Delete(Path+"/:userID/roles/:roleID", s.Remove)
}

// List returns every user holding at least one role.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := controller.AllUsersWithRoles(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list user roles")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to list user roles")
	}

	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

// RolesForUser returns the roles assigned to one user.
func (s *Service) RolesForUser(c *fiber.Ctx) error {
	userID := c.Params("userID")

	roles, err := controller.RolesForUser(s.db, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to load user roles")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load user roles")
	}

	return c.JSON(fiber.Map{"user_id": userID, "roles": roles})
}

// Assign grants a role to a user. Assigning an already held role is a no-op.
func (s *Service) Assign(c *fiber.Ctx) error {
	userID := c.Params("userID")

	req := new(assignRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	assignment, err := controller.Assign(s.db, userID, req.RoleID)

	switch {
	case errors.Is(err, role.ErrRoleNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, "Role not found")
	case err != nil:
		log.Error().Err(err).Str("user_id", userID).Uint("role_id", req.RoleID).Msg("failed to assign role")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to assign role")
	}

	log.Info().Str("user_id", userID).Uint("role_id", req.RoleID).Msg("role assigned")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user_role": assignment})
}

// Remove revokes a role from a user. Removing a role the user does not hold
// is a no-op.
func (s *Service) Remove(c *fiber.Ctx) error {
	userID := c.Params("userID")

	roleID, err := strconv.ParseUint(c.Params("roleID"), 10, 32)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid role id")
	}

	if err := controller.Remove(s.db, userID, uint(roleID)); err != nil {
		log.Error().Err(err).Str("user_id", userID).Uint64("role_id", roleID).Msg("failed to remove role")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to remove role")
	}

	log.Info().Str("user_id", userID).Uint64("role_id", roleID).Msg("role removed")

	return c.JSON(fiber.Map{"user_id": userID, "role_id": roleID, "deleted": true})
}
