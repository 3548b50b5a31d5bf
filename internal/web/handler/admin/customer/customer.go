// Package customer implements the JSON API for the customer activity
// timeline.
package customer

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/activity"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler"
)

const (
	// Path is the base path of the customer API.
	Path = handler.RootPath + "admin/customers"
)

// Service is the customer timeline handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the customer timeline handler.
var Handler = Service{} //nolint:gochecknoglobals

// activityRequest is the JSON body for recording an activity entry.
type activityRequest struct {
	EventType   string `json:"event_type" validate:"required"`
	EventName   string `json:"event_name" validate:"required"`
	Description string `json:"description"`
	Metadata    string `json:"metadata"`
}

// Init initializes the customer timeline handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Get(Path+"/:id/activities", s.Timeline)
	app.Post(Path+"/:id/activities", s.Record)
}

// Timeline returns a customer's activity entries, newest first.
func (s *Service) Timeline(c *fiber.Ctx) error {
	customerID := c.Params("id")

	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := activity.Timeline(s.db, customerID, limit)
	if err != nil {
		log.Error().Err(err).Str("customer_id", customerID).Msg("failed to load customer timeline")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load timeline")
	}

	return c.JSON(fiber.Map{"customer_id": customerID, "activities": entries, "count": len(entries)})
}

// Record stores one activity entry for a customer.
func (s *Service) Record(c *fiber.Ctx) error {
	customerID := c.Params("id")

	req := new(activityRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	entry, err := activity.Log(s.db, &models.CustomerActivity{
		CustomerID:  customerID,
		EventType:   req.EventType,
		EventName:   req.EventName,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		log.Error().Err(err).Str("customer_id", customerID).Msg("failed to record customer activity")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to record activity")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"activity": entry})
}
