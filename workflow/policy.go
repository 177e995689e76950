package workflow

import (
	"github.com/flocksocial/flock/internal/snowflake"
	"github.com/flocksocial/flock/models"
)

// The visibility policy. These are pure decision functions; every read and
// transition guard in the engine routes through them rather than restating the
// rules inline.

// CanView reports whether the viewer may read the target's profile data:
// owners always can, public profiles are open to everyone, and private
// profiles are open to accepted followers. status is the viewer→target edge
// status, or "" when no edge exists.
func CanView(viewerID snowflake.ID, target *models.Account, status models.RelationshipStatus) bool {
	if viewerID == target.ID {
		return true
	}
	if !target.IsPrivate {
		return true
	}
	return status == models.StatusAccepted
}

// InitialStatusFor returns the status a brand new follow edge starts in:
// pending when the target must approve it, accepted otherwise. The target's
// privacy flag is read at request time; later flips are handled by the
// cascade, never retroactively here.
func InitialStatusFor(target *models.Account) models.RelationshipStatus {
	if target.IsPrivate {
		return models.StatusPending
	}
	return models.StatusAccepted
}
