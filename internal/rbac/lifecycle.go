package rbac

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/pendingrole"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/controller/userrole"
)

// OnUserCreated handles the host platform's "user created" event. If a
// pending role grant exists for the user's email it is promoted into a real
// assignment; otherwise the new user keeps full default access. Replaying
// the event for an already-promoted email finds no grant and is a no-op.
func (s *Service) OnUserCreated(userID, email string) (bool, error) {
	if userID == "" {
		return false, ErrMissingUserID
	}

	promoted, err := pendingrole.Promote(s.db, userID, email)
	if err != nil {
		return false, fmt.Errorf("failed to promote pending role: %w", err)
	}

	if promoted {
		log.Info().Str("user_id", userID).Str("email", email).
			Msg("pending role promoted for new user")
	} else {
		log.Debug().Str("user_id", userID).Str("email", email).
			Msg("no pending role for new user, full access applies")
	}

	return promoted, nil
}

// OnUserDeleted handles the host platform's "user deleted" event: every role
// assignment held by the user is removed, and, when the event reports the
// user's email, any orphaned pending grant for it is revoked. Both steps are
// no-ops when nothing remains, so replayed events are safe.
func (s *Service) OnUserDeleted(userID, email string) error {
	if userID == "" {
		return ErrMissingUserID
	}

	if err := userrole.RemoveAll(s.db, userID); err != nil {
		return fmt.Errorf("failed to remove role assignments: %w", err)
	}

	if email != "" {
		if err := pendingrole.Revoke(s.db, email); err != nil {
			return fmt.Errorf("failed to revoke pending role: %w", err)
		}
	}

	log.Info().Str("user_id", userID).Msg("role assignments cleaned up for deleted user")

	return nil
}
