// Package workflow implements the follow request state machine. All
// relationship mutations go through the Engine; nothing else writes edge or
// notification rows, so the invariants hold no matter who the caller is.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/flocksocial/flock/internal/algorithms"
	"github.com/flocksocial/flock/internal/snowflake"
	"github.com/flocksocial/flock/internal/streaming"
	"github.com/flocksocial/flock/models"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
)

type Engine struct {
	db     *gorm.DB
	mux    *streaming.Mux
	logger *slog.Logger
}

// New returns an Engine. mux may be nil when live push is not wanted.
func New(db *gorm.DB, mux *streaming.Mux, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		db:     db,
		mux:    mux,
		logger: logger,
	}
}

// Request creates a follow edge from follower to target. The target's privacy
// flag, read in the same transaction, decides whether the edge starts pending
// or accepted, and which notification the target receives.
func (e *Engine) Request(ctx context.Context, followerID, targetID snowflake.ID) (*models.Relationship, error) {
	if followerID == targetID {
		return nil, models.ErrSelfFollow
	}
	var rel *models.Relationship
	var note *models.Notification
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accounts := models.NewAccounts(tx)
		follower, err := accounts.Find(followerID)
		if err != nil {
			return err
		}
		target, err := accounts.Find(targetID)
		if err != nil {
			return err
		}
		status := InitialStatusFor(target)
		rel, err = models.NewRelationships(tx).Create(followerID, targetID, status)
		if err != nil {
			return err
		}
		kind, message := models.NotificationNewFollower, fmt.Sprintf("%s started following you", follower.DisplayName)
		if status == models.StatusPending {
			kind, message = models.NotificationFollowRequest, fmt.Sprintf("%s requested to follow you", follower.DisplayName)
		}
		note, err = models.NewNotifications(tx).Append(targetID, followerID, kind, message)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.publish(note)
	return rel, nil
}

// Accept approves a pending request. Only the target of the edge may accept;
// the follower learns of the approval by notification.
func (e *Engine) Accept(ctx context.Context, actorID, followerID, targetID snowflake.ID) (*models.Relationship, error) {
	if actorID != targetID {
		return nil, models.ErrUnauthorized
	}
	var rel *models.Relationship
	var note *models.Notification
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := models.NewAccounts(tx).Find(targetID)
		if err != nil {
			return err
		}
		rel, err = models.NewRelationships(tx).UpdateStatus(followerID, targetID, models.StatusAccepted, models.StatusPending)
		if err != nil {
			return err
		}
		note, err = models.NewNotifications(tx).Append(followerID, targetID, models.NotificationFollowAccepted,
			fmt.Sprintf("%s accepted your follow request", target.DisplayName))
		return err
	})
	if err != nil {
		return nil, err
	}
	e.publish(note)
	return rel, nil
}

// Reject declines a pending request. Only the target may reject. The follower
// is not notified.
func (e *Engine) Reject(ctx context.Context, actorID, followerID, targetID snowflake.ID) (*models.Relationship, error) {
	if actorID != targetID {
		return nil, models.ErrUnauthorized
	}
	return models.NewRelationships(e.db.WithContext(ctx)).
		UpdateStatus(followerID, targetID, models.StatusRejected, models.StatusPending)
}

// Unfollow removes an accepted edge. Only the follower may withdraw; a pending
// edge must be cancelled instead.
func (e *Engine) Unfollow(ctx context.Context, actorID, followerID, targetID snowflake.ID) error {
	return e.withdraw(ctx, actorID, followerID, targetID, models.StatusAccepted)
}

// CancelRequest removes a pending edge. Only the follower may withdraw; an
// accepted edge must be unfollowed instead.
func (e *Engine) CancelRequest(ctx context.Context, actorID, followerID, targetID snowflake.ID) error {
	return e.withdraw(ctx, actorID, followerID, targetID, models.StatusPending)
}

func (e *Engine) withdraw(ctx context.Context, actorID, followerID, targetID snowflake.ID, expected models.RelationshipStatus) error {
	if actorID != followerID {
		return models.ErrUnauthorized
	}
	return models.NewRelationships(e.db.WithContext(ctx)).Delete(followerID, targetID, expected)
}

// SetPrivacy flips the account's privacy flag. Turning a profile private
// rejects every pending request targeting it, in the same transaction as the
// flag itself; an accept racing the cascade resolves to whichever commits
// first. Turning the profile public again does not revive rejected edges.
func (e *Engine) SetPrivacy(ctx context.Context, accountID snowflake.ID, private bool) (*models.Account, error) {
	var account *models.Account
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		account, err = models.NewAccounts(tx).Find(accountID)
		if err != nil {
			return err
		}
		if account.IsPrivate == private {
			return nil
		}
		if err := tx.Model(account).Update("is_private", private).Error; err != nil {
			return err
		}
		if private {
			rejected, err := models.NewRelationships(tx).RejectPending(accountID)
			if err != nil {
				return err
			}
			e.logger.Info("privacy cascade", "account", accountID, "rejected", rejected)
		}
		return nil
	})
	return account, err
}

// A Profile is what a viewer sees of an account. When Redacted is set only the
// public identification fields are populated.
type Profile struct {
	Account  *models.Account
	Status   models.RelationshipStatus
	Redacted bool
}

// GetProfile returns the target's profile as seen by the viewer.
func (e *Engine) GetProfile(ctx context.Context, viewerID, targetID snowflake.ID) (*Profile, error) {
	db := e.db.WithContext(ctx)
	target, err := models.NewAccounts(db).Find(targetID)
	if err != nil {
		return nil, err
	}
	status, err := e.edgeStatus(db, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Account:  target,
		Status:   status,
		Redacted: !CanView(viewerID, target, status),
	}, nil
}

// ListFollowers returns the accounts following the target, for viewers the
// policy admits. q, when set, filters by a case-insensitive substring match on
// display name or full name.
func (e *Engine) ListFollowers(ctx context.Context, viewerID, targetID snowflake.ID, page, pageSize int, q string) ([]*models.Account, error) {
	return e.listEdges(ctx, viewerID, targetID, models.Followers, page, pageSize, q)
}

// ListFollowing returns the accounts the target follows, gated like ListFollowers.
func (e *Engine) ListFollowing(ctx context.Context, viewerID, targetID snowflake.ID, page, pageSize int, q string) ([]*models.Account, error) {
	return e.listEdges(ctx, viewerID, targetID, models.Following, page, pageSize, q)
}

func (e *Engine) listEdges(ctx context.Context, viewerID, targetID snowflake.ID, direction models.Direction, page, pageSize int, q string) ([]*models.Account, error) {
	db := e.db.WithContext(ctx)
	target, err := models.NewAccounts(db).Find(targetID)
	if err != nil {
		return nil, err
	}
	status, err := e.edgeStatus(db, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	if !CanView(viewerID, target, status) {
		return nil, models.ErrUnauthorized
	}
	rels, err := models.NewRelationships(db).ListByStatus(targetID, direction, models.StatusAccepted, page, pageSize)
	if err != nil {
		return nil, err
	}
	accounts := algorithms.Map(rels, func(rel models.Relationship) *models.Account {
		if direction == models.Following {
			return rel.Following
		}
		return rel.Follower
	})
	if q == "" {
		return accounts, nil
	}
	q = strings.ToLower(q)
	return algorithms.Filter(accounts, func(a *models.Account) bool {
		return strings.Contains(strings.ToLower(a.DisplayName), q) ||
			strings.Contains(strings.ToLower(a.FullName), q)
	}), nil
}

// PendingRequests returns the requests awaiting the account's approval, newest first.
func (e *Engine) PendingRequests(ctx context.Context, accountID snowflake.ID, page, pageSize int) ([]models.Relationship, error) {
	return models.NewRelationships(e.db.WithContext(ctx)).
		ListByStatus(accountID, models.Followers, models.StatusPending, page, pageSize)
}

// edgeStatus returns the status of the viewer→target edge, or "" when absent.
func (e *Engine) edgeStatus(db *gorm.DB, viewerID, targetID snowflake.ID) (models.RelationshipStatus, error) {
	if viewerID == targetID {
		return "", nil
	}
	rel, err := models.NewRelationships(db).Find(viewerID, targetID)
	switch err {
	case nil:
		return rel.Status, nil
	case models.ErrNotFound:
		return "", nil
	default:
		return "", err
	}
}

// publish pushes the notification to any live subscriptions held by its
// recipient. Delivery is fire and forget; the row is already committed.
func (e *Engine) publish(note *models.Notification) {
	if e.mux == nil || note == nil {
		return
	}
	e.mux.Publish(note.AccountID, "notification", note)
}
