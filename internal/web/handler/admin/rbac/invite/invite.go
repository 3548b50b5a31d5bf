// Package invite implements the JSON API for inviting admin users with a
// pre-assigned role. The role grant is stored before the invite goes out to
// the host platform, so a user accepting immediately still gets the role.
package invite

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/pendingrole"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/role"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/medusa"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler"
)

const (
	// Path is the base path of the invite API.
	Path = handler.RootPath + "admin/rbac/invites"
)

// Service is the invite handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
	medusa    *medusa.Client
}

// Handler is the invite handler.
var Handler = Service{} //nolint:gochecknoglobals

// createRequest is the JSON body for creating an invite.
type createRequest struct {
	Email  string `json:"email" validate:"required,email"`
	RoleID uint   `json:"role_id" validate:"required"`
}

// Init initializes the invite handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, client *medusa.Client) {
	if app == nil || cfg == nil || db == nil || client == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()
	s.medusa = client

	app.Get(Path, s.List)
	app.Post(Path, s.Create)
	app.Delete(Path+"/:email", s.Revoke)
}

// List returns all pending role grants.
func (s *Service) List(c *fiber.Ctx) error {
	grants, err := pendingrole.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list pending role grants")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to list invites")
	}

	return c.JSON(fiber.Map{"invites": grants, "count": len(grants)})
}

// Create records the pending role grant, then asks the host platform to send
// the invite. The grant is written first: if the invite call fails the grant
// stays behind and a retry or manual invite still picks it up.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	grant, err := pendingrole.Grant(s.db, req.Email, req.RoleID)

	switch {
	case errors.Is(err, role.ErrRoleNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, "Role not found")
	case err != nil:
		log.Error().Err(err).Str("email", req.Email).Msg("failed to store pending role grant")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to create invite")
	}

	hostInvite, err := s.medusa.CreateInvite(c.Context(), grant.Email)
	if err != nil {
		log.Error().Err(err).Str("email", grant.Email).Msg("host invite failed, pending grant kept")

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"pending_role": grant,
			"message":      "Role grant stored, but the platform invite could not be sent",
		})
	}

	log.Info().Str("email", grant.Email).Uint("role_id", grant.RoleID).Msg("invite created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"pending_role": grant,
		"invite":       hostInvite,
	})
}

// Revoke removes a pending role grant.
func (s *Service) Revoke(c *fiber.Ctx) error {
	email := pendingrole.NormalizeEmail(c.Params("email"))

	if err := pendingrole.Revoke(s.db, email); err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to revoke pending role grant")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to revoke invite")
	}

	log.Info().Str("email", email).Msg("pending role grant revoked")

	return c.JSON(fiber.Map{"email": email, "deleted": true})
}
