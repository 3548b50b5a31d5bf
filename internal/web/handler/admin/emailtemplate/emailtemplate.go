// Package emailtemplate implements the JSON API for transactional e-mail
// templates, including a preview endpoint rendering a template with sample
// variables.
package emailtemplate

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	controller "github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/emailtemplate"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler"
)

const (
	// Path is the base path of the e-mail template API.
	Path = handler.RootPath + "admin/email-templates"
)

// Service is the e-mail template handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the e-mail template handler.
var Handler = Service{} //nolint:gochecknoglobals

// request is the JSON body for create and update.
type request struct {
	Name        string `json:"name" validate:"required"`
	EventName   string `json:"event_name" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description"`
	HTMLContent string `json:"html_content" validate:"required"`
	Variables   string `json:"variables"`
	IsActive    *bool  `json:"is_active"`
}

// previewRequest is the JSON body of the preview endpoint.
type previewRequest struct {
	Variables map[string]any `json:"variables"`
}

// Init initializes the e-mail template handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Get(Path, s.List)
	app.Get(Path+"/:id", s.Get)
	app.Post(Path, s.Create)
	app.Post(Path+"/:id/preview", s.Preview)
	app.Put(Path+"/:id", s.Update)
	app.Delete(Path+"/:id", s.Delete)
}

// List returns all templates.
func (s *Service) List(c *fiber.Ctx) error {
	templates, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list email templates")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to list templates")
	}

	return c.JSON(fiber.Map{"templates": templates, "count": len(templates)})
}

// Get returns one template.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid template id")
	}

	tpl, err := controller.Get(s.db, id)
	if err != nil {
		if errors.Is(err, controller.ErrTemplateNotFound) {
			return handler.JSONError(c, fiber.StatusNotFound, "Template not found")
		}

		log.Error().Err(err).Uint("id", id).Msg("failed to load email template")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load template")
	}

	return c.JSON(fiber.Map{"template": tpl})
}

// Create adds a template.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(request)
	if err := s.parseBody(c, req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	tpl, err := controller.Create(s.db, req.toModel())
	if err != nil {
		log.Error().Err(err).Str("event", req.EventName).Msg("failed to create email template")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to create template")
	}

	log.Info().Uint("id", tpl.ID).Str("event", tpl.EventName).Msg("email template created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"template": tpl})
}

// Preview renders a template with the supplied variables.
func (s *Service) Preview(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid template id")
	}

	req := new(previewRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	rendered, err := controller.Render(s.db, id, req.Variables)
	if err != nil {
		if errors.Is(err, controller.ErrTemplateNotFound) {
			return handler.JSONError(c, fiber.StatusNotFound, "Template not found")
		}

		log.Error().Err(err).Uint("id", id).Msg("failed to render email template")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to render template")
	}

	return c.JSON(rendered)
}

// Update modifies a template.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid template id")
	}

	req := new(request)
	if err := s.parseBody(c, req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	tpl, err := controller.Update(s.db, id, req.toModel())
	if err != nil {
		if errors.Is(err, controller.ErrTemplateNotFound) {
			return handler.JSONError(c, fiber.StatusNotFound, "Template not found")
		}

		log.Error().Err(err).Uint("id", id).Msg("failed to update email template")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to update template")
	}

	return c.JSON(fiber.Map{"template": tpl})
}

// Delete removes a template.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid template id")
	}

	if err := controller.Delete(s.db, id); err != nil {
		if errors.Is(err, controller.ErrTemplateNotFound) {
			return handler.JSONError(c, fiber.StatusNotFound, "Template not found")
		}

		log.Error().Err(err).Uint("id", id).Msg("failed to delete email template")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to delete template")
	}

	log.Info().Uint("id", id).Msg("email template deleted")

	return c.JSON(fiber.Map{"id": id, "deleted": true})
}

func (r *request) toModel() *models.EmailTemplate {
	tpl := &models.EmailTemplate{
		Name:        r.Name,
		EventName:   r.EventName,
		Subject:     r.Subject,
		Description: r.Description,
		HTMLContent: r.HTMLContent,
		Variables:   r.Variables,
	}

	if r.IsActive != nil {
		tpl.IsActive = *r.IsActive
	} else {
		tpl.IsActive = true
	}

	return tpl
}

func (s *Service) parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errors.New("invalid request body")
	}

	return s.validator.Struct(out)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}
