// Package role implements the JSON API for the role registry.
package role

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/policy"
	controller "github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/role"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler"
)

const (
	// Path is the base path of the role registry API.
	Path = handler.RootPath + "admin/rbac/roles"
)

// Service is the role registry handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the role registry handler.
var Handler = Service{} //nolint:gochecknoglobals

// policyInput is one policy line in a role request.
type policyInput struct {
	PermissionID uint   `json:"permission_id" validate:"required"`
	Decision     string `json:"decision" validate:"required,oneof=allow deny"`
}

// createRequest is the JSON body for role creation.
type createRequest struct {
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description"`
	Policies    []policyInput `json:"policies" validate:"dive"`
}

// updateRequest is the JSON body for role metadata updates.
type updateRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// policiesRequest is the JSON body replacing a role's policy set.
type policiesRequest struct {
	Policies []policyInput `json:"policies" validate:"dive"`
}

// Init initializes the role registry handler.
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
	app.Put(Path+"/:id", s.Update)
	app.Put(Path+"/:id/policies", s.ReplacePolicies)
	app.Delete(Path+"/:id", s.Delete)
}

// List returns all roles.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list roles")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to list roles")
	}

	return c.JSON(fiber.Map{"roles": roles, "count": len(roles)})
}

// Get returns one role together with its policies.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid role id")
	}

	withPolicies, err := controller.GetWithPolicies(s.db, id)
	if err != nil {
		if errors.Is(err, controller.ErrRoleNotFound) {
			return handler.JSONError(c, fiber.StatusNotFound, "Role not found")
		}

		log.Error().Err(err).Uint("id", id).Msg("failed to load role")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load role")
	}

	return c.JSON(withPolicies)
}

// Create adds a role, optionally with an initial policy set in the same
// transaction.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := s.parseBody(c, req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	newRole, err := controller.CreateWithPolicies(s.db, req.Name, req.Description, toPolicyInputs(req.Policies))
	if err != nil {
		if errors.Is(err, controller.ErrInvalidDecision) {
			return handler.JSONError(c, fiber.StatusBadRequest, "Invalid policy decision")
		}

		log.Error().Err(err).Str("name", req.Name).Msg("failed to create role")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to create role")
	}

	log.Info().Uint("id", newRole.ID).Str("name", newRole.Name).Msg("role created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"role": newRole})
}

// Update modifies role metadata. System roles are immutable.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid role id")
	}

	req := new(updateRequest)
	if err := s.parseBody(c, req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	updated, err := controller.Update(s.db, id, req.Name, req.Description)

	switch {
	case errors.Is(err, controller.ErrRoleNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, "Role not found")
	case errors.Is(err, controller.ErrSystemRole):
		return handler.JSONError(c, fiber.StatusForbidden, "System roles can not be modified")
	case err != nil:
		log.Error().Err(err).Uint("id", id).Msg("failed to update role")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to update role")
	}

	return c.JSON(fiber.Map{"role": updated})
}

// ReplacePolicies swaps the complete policy set of a role.
func (s *Service) ReplacePolicies(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid role id")
	}

	req := new(policiesRequest)
	if err := s.parseBody(c, req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	if _, err := controller.Get(s.db, id); err != nil {
		if errors.Is(err, controller.ErrRoleNotFound) {
			return handler.JSONError(c, fiber.StatusNotFound, "Role not found")
		}

		log.Error().Err(err).Uint("id", id).Msg("failed to load role")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load role")
	}

	inputs := make([]policy.Input, 0, len(req.Policies))
	for _, p := range req.Policies {
		inputs = append(inputs, policy.Input{
			PermissionID: p.PermissionID,
			Decision:     models.Decision(p.Decision),
		})
	}

	if err := policy.Replace(s.db, id, inputs); err != nil {
		log.Error().Err(err).Uint("role_id", id).Msg("failed to replace policies")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to replace policies")
	}

	log.Info().Uint("role_id", id).Int("policy_count", len(inputs)).Msg("role policies replaced")

	withPolicies, err := controller.GetWithPolicies(s.db, id)
	if err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to reload role")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load role")
	}

	return c.JSON(withPolicies)
}

// Delete removes a role, its policies and its assignments. System roles are
// immutable.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid role id")
	}

	err = controller.Delete(s.db, id)

	switch {
	case errors.Is(err, controller.ErrRoleNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, "Role not found")
	case errors.Is(err, controller.ErrSystemRole):
		return handler.JSONError(c, fiber.StatusForbidden, "System roles can not be deleted")
	case err != nil:
		log.Error().Err(err).Uint("id", id).Msg("failed to delete role")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to delete role")
	}

	log.Info().Uint("id", id).Msg("role deleted")

	return c.JSON(fiber.Map{"id": id, "deleted": true})
}

func (s *Service) parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errors.New("invalid request body")
	}

	return s.validator.Struct(out)
}

func toPolicyInputs(in []policyInput) []controller.PolicyInput {
	out := make([]controller.PolicyInput, 0, len(in))
	for _, p := range in {
		out = append(out, controller.PolicyInput{
			PermissionID: p.PermissionID,
			Decision:     models.Decision(p.Decision),
		})
	}

	return out
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}
