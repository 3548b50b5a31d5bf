// Package rbac implements the fiber middleware enforcing role based access
// control on the admin API surface.
package rbac

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/rbac"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler"
)

// GuardedPrefix is the path prefix subject to permission checks.
// Everything outside of it passes through untouched.
const GuardedPrefix = "/admin"

// defaultExcludes lists path prefixes under the guarded prefix that must stay
// reachable for every authenticated user, plus the operational endpoints.
var defaultExcludes = []string{ //nolint:gochecknoglobals
	"/admin/auth",
	"/admin/invites/accept",
	"/admin/rbac/check",
	"/admin/rbac/me",
	"/admin/users/me",
	"/checkalive",
	"/metrics",
}

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Service resolves permission checks.
	Service *rbac.Service

	// Disabled turns all checks off.
	Disabled bool

	// ExcludePaths lists additional path prefixes never checked.
	ExcludePaths []string
}

// DeniedResponse is the JSON body returned on a denied request.
type DeniedResponse struct {
	Message  string `json:"message"`
	Reason   string `json:"reason"`
	Action   string `json:"action"`
	Resource string `json:"resource"`
}

// New creates the permission check middleware.
func New(cfg Config) fiber.Handler {
	excludes := make([]string, 0, len(defaultExcludes)+len(cfg.ExcludePaths))
	excludes = append(excludes, defaultExcludes...)
	excludes = append(excludes, cfg.ExcludePaths...)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		if cfg.Disabled {
			return c.Next()
		}

		resource := NormalizePath(c.Path())

		if !strings.HasPrefix(resource, GuardedPrefix) {
			return c.Next()
		}

		for _, prefix := range excludes {
			if strings.HasPrefix(resource, prefix) {
				return c.Next()
			}
		}

		action, checked := actionForMethod(c.Method())
		if !checked {
			return c.Next()
		}

		userID := c.Get(handler.HeaderUserID)
		if userID == "" {
			return handler.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		result, err := cfg.Service.CheckPermission(userID, action, resource)
		if err != nil {
			// a broken permission store must not lock admins out
			log.Error().Err(err).
				Str("user_id", userID).
				Str("resource", resource).
				Str("action", string(action)).
				Msg("permission check failed, letting request pass")

			return c.Next()
		}

		if !result.Allowed {
			log.Info().
				Str("user_id", userID).
				Str("resource", resource).
				Str("action", string(action)).
				Str("reason", result.Reason).
				Msg("request denied")

			return c.Status(fiber.StatusForbidden).JSON(DeniedResponse{
				Message:  "Forbidden",
				Reason:   result.Reason,
				Action:   string(action),
				Resource: resource,
			})
		}

		return c.Next()
	}
}

// actionForMethod maps an HTTP method to the permission action it requires.
// Methods without side effects on resources (OPTIONS, HEAD) are not checked.
func actionForMethod(method string) (models.Action, bool) {
	switch method {
	case fiber.MethodGet:
		return models.ActionRead, true
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch:
		return models.ActionWrite, true
	case fiber.MethodDelete:
		return models.ActionDelete, true
	default:
		return "", false
	}
}

// NormalizePath collapses duplicate slashes and strips the trailing slash so
// the checked resource is stable no matter how the client spells the URL.
func NormalizePath(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}

	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}

	if p == "" {
		return "/"
	}

	return p
}
