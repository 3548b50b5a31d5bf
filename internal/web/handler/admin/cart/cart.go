// Package cart implements the JSON API listing abandoned carts fetched from
// the host platform.
package cart

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/medusa"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler"
)

const (
	// Path is the path of the abandoned carts endpoint.
	Path = handler.RootPath + "admin/carts/abandoned"

	// DefaultIdleFor is how long a cart must see no activity before it
	// counts as abandoned.
	DefaultIdleFor = 2 * time.Hour

	// DefaultLimit caps how many carts are fetched from the host platform.
	DefaultLimit = 100
)

// Service is the abandoned carts handler service.
type Service struct {
	cfg    *config.Config
	db     *gorm.DB
	medusa *medusa.Client
}

// Handler is the abandoned carts handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the abandoned carts handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, client *medusa.Client) {
	if app == nil || cfg == nil || db == nil || client == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.medusa = client

	app.Get(Path, s.List)
}

// List returns carts with an e-mail address, never completed and idle for at
// least the requested duration (query: idle_minutes, limit).
func (s *Service) List(c *fiber.Ctx) error {
	idleFor := DefaultIdleFor
	if minutes, err := strconv.Atoi(c.Query("idle_minutes")); err == nil && minutes > 0 {
		idleFor = time.Duration(minutes) * time.Minute
	}

	limit := DefaultLimit
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	carts, err := s.medusa.AbandonedCarts(c.Context(), idleFor, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch abandoned carts from host platform")
		return handler.JSONError(c, fiber.StatusBadGateway, "Failed to fetch carts from the platform")
	}

	return c.JSON(fiber.Map{"carts": carts, "count": len(carts)})
}
