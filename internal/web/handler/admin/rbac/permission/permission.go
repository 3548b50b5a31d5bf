// Package permission implements the JSON API for the permission catalog.
package permission

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	controller "github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/permission"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler"
)

const (
	// Path is the base path of the permission catalog API.
	Path = handler.RootPath + "admin/rbac/permissions"
)

// Service is the permission catalog handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the permission catalog handler.
var Handler = Service{} //nolint:gochecknoglobals

// request is the JSON body for create and update.
type request struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Resource    string `json:"resource" validate:"required"`
	Action      string `json:"action" validate:"required,oneof=read write delete"`
	Category    string `json:"category"`
}

// Init initializes the permission catalog handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Get(Path, s.List)
	app.Get(Path+"/categories", s.Categories)
	app.Get(Path+"/:id", s.Get)
	app.Post(Path, s.Create)
	app.Put(Path+"/:id", s.Update)
	app.Delete(Path+"/:id", s.Delete)
}

// List returns the permission catalog, optionally filtered by action or category.
func (s *Service) List(c *fiber.Ctx) error {
	filter := controller.Filter{
		Action:   models.Action(c.Query("action")),
		Category: c.Query("category"),
	}

	permissions, err := controller.List(s.db, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list permissions")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to list permissions")
	}

	return c.JSON(fiber.Map{"permissions": permissions, "count": len(permissions)})
}

// Categories returns the catalog grouped by category for settings screens.
func (s *Service) Categories(c *fiber.Ctx) error {
	grouped, err := controller.ByCategory(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to group permissions")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to list permissions")
	}

	return c.JSON(fiber.Map{"categories": grouped})
}

// Get returns a single permission.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid permission id")
	}

	perm, err := controller.Get(s.db, id)
	if err != nil {
		if errors.Is(err, controller.ErrPermissionNotFound) {
			return handler.JSONError(c, fiber.StatusNotFound, "Permission not found")
		}

		log.Error().Err(err).Uint("id", id).Msg("failed to load permission")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load permission")
	}

	return c.JSON(fiber.Map{"permission": perm})
}

// Create adds a custom permission to the catalog.
func (s *Service) Create(c *fiber.Ctx) error {
	req, err := s.parseBody(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	perm, err := controller.Create(s.db, &models.Permission{
		Name:        req.Name,
		Description: req.Description,
		Resource:    req.Resource,
		Action:      models.Action(req.Action),
		Category:    req.Category,
	})
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("failed to create permission")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to create permission")
	}

	log.Info().Uint("id", perm.ID).Str("name", perm.Name).Msg("permission created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"permission": perm})
}

// Update modifies a custom permission. System permissions are immutable.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid permission id")
	}

	req, err := s.parseBody(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	perm, err := controller.Update(s.db, id, &models.Permission{
		Name:        req.Name,
		Description: req.Description,
		Resource:    req.Resource,
		Action:      models.Action(req.Action),
		Category:    req.Category,
	})

	switch {
	case errors.Is(err, controller.ErrPermissionNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, "Permission not found")
	case errors.Is(err, controller.ErrSystemPermission):
		return handler.JSONError(c, fiber.StatusForbidden, "System permissions can not be modified")
	case err != nil:
		log.Error().Err(err).Uint("id", id).Msg("failed to update permission")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to update permission")
	}

	return c.JSON(fiber.Map{"permission": perm})
}

// Delete removes a custom permission. System permissions are immutable.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid permission id")
	}

	err = controller.Delete(s.db, id)

	switch {
	case errors.Is(err, controller.ErrPermissionNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, "Permission not found")
	case errors.Is(err, controller.ErrSystemPermission):
		return handler.JSONError(c, fiber.StatusForbidden, "System permissions can not be deleted")
	case err != nil:
		log.Error().Err(err).Uint("id", id).Msg("failed to delete permission")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to delete permission")
	}

	log.Info().Uint("id", id).Msg("permission deleted")

	return c.JSON(fiber.Map{"id": id, "deleted": true})
}

func (s *Service) parseBody(c *fiber.Ctx) (*request, error) {
	req := new(request)
	if err := c.BodyParser(req); err != nil {
		return nil, errors.New("invalid request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	return req, nil
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}
