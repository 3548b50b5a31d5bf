// Package check implements the JSON API clients use to ask what the calling
// user may do: a single permission check and the full effective permission
// set for UI state.
package check

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/rbac"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler"
)

const (
	// Path is the path of the permission check endpoint.
	Path = handler.RootPath + "admin/rbac/check"

	// PermissionsPath is the path of the effective permissions endpoint.
	PermissionsPath = handler.RootPath + "admin/rbac/me/permissions"
)

// Service is the permission check handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
	rbac      *rbac.Service
}

// Handler is the permission check handler.
var Handler = Service{} //nolint:gochecknoglobals

// checkRequest is the JSON body of a permission check.
type checkRequest struct {
	Action   string `json:"action" validate:"required,oneof=read write delete"`
	Resource string `json:"resource" validate:"required"`
}

// Init initializes the permission check handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, rbacService *rbac.Service) {
	if app == nil || cfg == nil || db == nil || rbacService == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()
	s.rbac = rbacService

	app.Post(Path, s.Check)
	app.Get(PermissionsPath, s.Permissions)
}

// Check resolves one (action, resource) pair for the calling user.
func (s *Service) Check(c *fiber.Ctx) error {
	userID := c.Get(handler.HeaderUserID)
	if userID == "" {
		return handler.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	req := new(checkRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := s.rbac.CheckPermission(userID, models.Action(req.Action), req.Resource)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("permission check failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Permission check failed")
	}

	return c.JSON(result)
}

// Permissions returns the calling user's roles and effective permission set.
func (s *Service) Permissions(c *fiber.Ctx) error {
	userID := c.Get(handler.HeaderUserID)
	if userID == "" {
		return handler.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	permissions, err := s.rbac.UserPermissions(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to load user permissions")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load permissions")
	}

	return c.JSON(permissions)
}
