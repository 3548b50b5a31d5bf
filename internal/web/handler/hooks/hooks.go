// Package hooks implements the endpoints the host platform calls on user
// lifecycle events. They sit outside the guarded admin surface and are
// idempotent, so the platform may deliver an event more than once.
package hooks

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/rbac"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler"
)

const (
	// UserCreatedPath is the path of the user created hook.
	UserCreatedPath = handler.RootPath + "hooks/user-created"

	// UserDeletedPath is the path of the user deleted hook.
	UserDeletedPath = handler.RootPath + "hooks/user-deleted"
)

// Service is the lifecycle hooks handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
	rbac      *rbac.Service
}

// Handler is the lifecycle hooks handler.
var Handler = Service{} //nolint:gochecknoglobals

// userEvent is the JSON body of both lifecycle hooks.
type userEvent struct {
	ID    string `json:"id" validate:"required"`
	Email string `json:"email"`
}

// Init initializes the lifecycle hooks handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, rbacService *rbac.Service) {
	if app == nil || cfg == nil || db == nil || rbacService == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()
	s.rbac = rbacService

	app.Post(UserCreatedPath, s.UserCreated)
	app.Post(UserDeletedPath, s.UserDeleted)
}

// UserCreated promotes a pending role grant for the new user's e-mail
// address into a real assignment, if one exists.
func (s *Service) UserCreated(c *fiber.Ctx) error {
	event := new(userEvent)
	if err := c.BodyParser(event); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := s.validator.Struct(event); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	promoted, err := s.rbac.OnUserCreated(event.ID, event.Email)
	if err != nil {
		log.Error().Err(err).Str("user_id", event.ID).Msg("user created hook failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Hook processing failed")
	}

	return c.JSON(fiber.Map{"user_id": event.ID, "role_promoted": promoted})
}

// UserDeleted drops all role assignments of the deleted user and any pending
// grant for its e-mail address.
func (s *Service) UserDeleted(c *fiber.Ctx) error {
	event := new(userEvent)
	if err := c.BodyParser(event); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := s.validator.Struct(event); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := s.rbac.OnUserDeleted(event.ID, event.Email); err != nil {
		log.Error().Err(err).Str("user_id", event.ID).Msg("user deleted hook failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Hook processing failed")
	}

	return c.JSON(fiber.Map{"user_id": event.ID, "cleaned": true})
}
