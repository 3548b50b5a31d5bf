// Package setup implements the one-time bootstrap endpoint that makes the
// calling user the first super admin. Once any user holds the Super Admin
// role the endpoint refuses further calls.
package setup

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/role"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/userrole"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler"
)

const (
	// Path is the path of the super admin bootstrap endpoint.
	Path = handler.RootPath + "admin/rbac/setup-superadmin"

	// SuperAdminRoleName is the name of the seeded super admin system role.
	SuperAdminRoleName = "Super Admin"
)

// Service is the super admin bootstrap handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the super admin bootstrap handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the super admin bootstrap handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db

	app.Post(Path, s.Post)
}

// Post assigns the Super Admin role to the calling user if nobody holds it yet.
func (s *Service) Post(c *fiber.Ctx) error {
	userID := c.Get(handler.HeaderUserID)
	if userID == "" {
		return handler.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	superAdmin, err := role.GetByName(s.db, SuperAdminRoleName)
	if err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			log.Error().Msg("super admin role missing, was the database seeded?")
			return handler.JSONError(c, fiber.StatusInternalServerError, "Super Admin role not found")
		}

		log.Error().Err(err).Msg("failed to load super admin role")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load role")
	}

	holders, err := userrole.AssignmentsForRole(s.db, superAdmin.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to check super admin holders")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to check existing assignments")
	}

	if len(holders) > 0 {
		return handler.JSONError(c, fiber.StatusConflict, "A super admin already exists")
	}

	assignment, err := userrole.Assign(s.db, userID, superAdmin.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to assign super admin role")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to assign role")
	}

	log.Info().Str("user_id", userID).Msg("super admin bootstrap completed")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user_role": assignment})
}
