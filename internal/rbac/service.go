// Package rbac implements the authorization resolver: given a platform user
// and a requested (action, resource) pair, it computes an allow/deny verdict
// from the user's roles and their policies.
//
// The model is additive-restriction, not additive-grant: a user with no role
// assignments is allowed everything, so an installation that never configures
// RBAC behaves exactly as before. Once a user holds at least one role, access
// defaults to closed and must be granted by policy, with deny overriding
// allow across roles.
package rbac

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
)

// Display reasons returned by CheckPermission. UIs show these verbatim, so
// they are part of the contract, not debug text.
const (
	ReasonNoRoleFullAccess = "No role assigned - full access"
	ReasonDenied           = "Explicitly denied by policy"
	ReasonAllowed          = "Allowed by policy"
	ReasonNoAllowPolicy    = "No matching allow policy"
)

// ErrMissingUserID is returned when a check is attempted without a caller
// identity. This is distinct from a known user having no roles.
var ErrMissingUserID = errors.New("user id is required for permission checks")

// Result is the verdict of a permission check.
type Result struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// EffectivePermission is one permission with the decision that wins across
// all of a user's roles.
type EffectivePermission struct {
	Permission models.Permission `json:"permission"`
	Decision   models.Decision   `json:"decision"`
}

// UserPermissions enumerates what a user can do, so clients can render UI
// state without one CheckPermission call per element.
type UserPermissions struct {
	Permissions []EffectivePermission `json:"permissions"`
	Roles       []models.Role         `json:"roles"`
}

// Service resolves permission checks. It owns no mutable state: every check
// is a pure read over the catalog, roles, policies and assignments at call
// time, safe for unbounded concurrent use.
type Service struct {
	db *gorm.DB
}

// NewService creates a new authorization resolver over the given store.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CheckPermission computes the allow/deny verdict for one request.
//
// Resolution order:
//  1. no roles held -> allowed, full access
//  2. no catalog permission matches the action/resource -> denied
//  3. roles hold no policy on the matched permission -> denied
//  4. any deny policy -> denied; any allow policy -> allowed
func (s *Service) CheckPermission(userID string, action models.Action, resource string) (Result, error) {
	if userID == "" {
		return Result{}, ErrMissingUserID
	}

	var assignments []models.UserRole
	if err := s.db.Where("user_id = ?", userID).Find(&assignments).Error; err != nil {
		return Result{}, fmt.Errorf("failed to load role assignments: %w", err)
	}

	if len(assignments) == 0 {
		return Result{Allowed: true, Reason: ReasonNoRoleFullAccess}, nil
	}

	matched, err := s.matchPermission(action, resource)
	if err != nil {
		return Result{}, err
	}

	if matched == nil {
		return Result{
			Allowed: false,
			Reason:  fmt.Sprintf("No permission defined for %s %s", action, resource),
		}, nil
	}

	roleIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		roleIDs = append(roleIDs, a.RoleID)
	}

	var policies []models.Policy
	err = s.db.Where("role_id IN ? AND permission_id = ?", roleIDs, matched.ID).
		Find(&policies).Error
	if err != nil {
		return Result{}, fmt.Errorf("failed to load policies: %w", err)
	}

	if len(policies) == 0 {
		return Result{
			Allowed: false,
			Reason:  fmt.Sprintf("Role has no policy for %s %s", action, resource),
		}, nil
	}

	for _, p := range policies {
		if p.Decision == models.DecisionDeny {
			return Result{Allowed: false, Reason: ReasonDenied}, nil
		}
	}

	for _, p := range policies {
		if p.Decision == models.DecisionAllow {
			return Result{Allowed: true, Reason: ReasonAllowed}, nil
		}
	}

	return Result{Allowed: false, Reason: ReasonNoAllowPolicy}, nil
}

// matchPermission finds the catalog entry for an action/resource pair.
// When several patterns match, the most specific (longest) pattern wins;
// among equally long patterns the first in catalog order is kept.
func (s *Service) matchPermission(action models.Action, resource string) (*models.Permission, error) {
	var perms []models.Permission
	err := s.db.Where("action = ?", action).
		Order("category ASC, name ASC").
		Find(&perms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load permission catalog: %w", err)
	}

	var (
		best     *models.Permission
		bestSpec = -1
	)

	for i := range perms {
		spec, ok := matchResource(perms[i].Resource, resource)
		if ok && spec > bestSpec {
			best = &perms[i]
			bestSpec = spec
		}
	}

	return best, nil
}

// matchResource reports whether a permission pattern covers a requested
// resource, and the pattern's specificity (its effective prefix length).
//
// A pattern matches on exact equality, as a path prefix of the request, or,
// with a trailing "/*", as a wildcard over deeper paths. Prefix and wildcard
// matches only apply at path-segment boundaries: "/admin/orders/*" covers
// "/admin/orders/456/fulfill" but not "/admin/ordersX".
func matchResource(pattern, resource string) (int, bool) {
	if pattern == "" {
		return 0, false
	}

	prefix := pattern
	if strings.HasSuffix(pattern, "/*") {
		prefix = pattern[:len(pattern)-2]
	}

	if resource == prefix || strings.HasPrefix(resource, prefix+"/") {
		return len(prefix), true
	}

	return 0, false
}

// UserPermissions computes the effective decision for every permission
// referenced by any of the user's roles' policies: deny wins over allow.
// A user without roles gets an empty set; the default-open rule is the
// resolver's concern, not the enumeration's.
func (s *Service) UserPermissions(userID string) (*UserPermissions, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	out := &UserPermissions{
		Permissions: []EffectivePermission{},
		Roles:       []models.Role{},
	}

	var assignments []models.UserRole
	if err := s.db.Where("user_id = ?", userID).Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to load role assignments: %w", err)
	}

	if len(assignments) == 0 {
		return out, nil
	}

	roleIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		roleIDs = append(roleIDs, a.RoleID)
	}

	if err := s.db.Where("id IN ?", roleIDs).Find(&out.Roles).Error; err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	var policies []models.Policy
	if err := s.db.Where("role_id IN ?", roleIDs).Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}

	decisions := make(map[uint]models.Decision)

	for _, p := range policies {
		existing, seen := decisions[p.PermissionID]
		if !seen || existing != models.DecisionDeny {
			decisions[p.PermissionID] = p.Decision
		}
	}

	for permID, decision := range decisions {
		var perm models.Permission
		result := s.db.First(&perm, permID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				// policy pointing at a deleted permission, skip it
				continue
			}
			return nil, result.Error
		}

		out.Permissions = append(out.Permissions, EffectivePermission{
			Permission: perm,
			Decision:   decision,
		})
	}

	return out, nil
}
