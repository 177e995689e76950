package models

import (
	"errors"
	"time"

	"github.com/flocksocial/flock/internal/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// RelationshipStatus is the state of a directed follow edge. There is no
// "absent" status; an edge that does not exist has no row.
type RelationshipStatus string

const (
	StatusPending  RelationshipStatus = "pending"
	StatusAccepted RelationshipStatus = "accepted"
	StatusRejected RelationshipStatus = "rejected"
)

func (RelationshipStatus) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "postgres":
		return "enum('pending', 'accepted', 'rejected')"
	case "sqlite":
		return "TEXT"
	default:
		return ""
	}
}

// A Relationship is a directed follow edge from Follower to Following.
// The composite primary key is the uniqueness guarantee: a second insert for
// the same ordered pair fails at the database, whoever loses the race.
// A→B and B→A are independent rows.
type Relationship struct {
	FollowerID  snowflake.ID       `gorm:"primarykey;autoIncrement:false"`
	Follower    *Account           `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	FollowingID snowflake.ID       `gorm:"primarykey;autoIncrement:false"`
	Following   *Account           `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	Status      RelationshipStatus `gorm:"not null;default:'pending'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AfterCreate updates the follower and following counts for both ends of the edge.
func (r *Relationship) AfterCreate(tx *gorm.DB) error {
	return forEach(tx, r.updateFollowersCount, r.updateFollowingCount)
}

// AfterUpdate updates the follower and following counts for both ends of the edge.
func (r *Relationship) AfterUpdate(tx *gorm.DB) error {
	return forEach(tx, r.updateFollowersCount, r.updateFollowingCount)
}

// AfterDelete updates the follower and following counts for both ends of the edge.
func (r *Relationship) AfterDelete(tx *gorm.DB) error {
	return forEach(tx, r.updateFollowersCount, r.updateFollowingCount)
}

// updateFollowersCount recomputes the followers count of the account being
// followed. Only accepted edges count; running inside the mutating transaction
// means the counter cannot drift from the edges themselves.
func (r *Relationship) updateFollowersCount(tx *gorm.DB) error {
	account := &Account{
		ID: r.FollowingID,
	}
	followers := tx.Select("COUNT(*)").Where("following_id = ? and status = ?", r.FollowingID, StatusAccepted).Table("relationships")
	return tx.Model(account).Update("followers_count", followers).Error
}

// updateFollowingCount recomputes the following count of the follower.
func (r *Relationship) updateFollowingCount(tx *gorm.DB) error {
	account := &Account{
		ID: r.FollowerID,
	}
	following := tx.Select("COUNT(*)").Where("follower_id = ? and status = ?", r.FollowerID, StatusAccepted).Table("relationships")
	return tx.Model(account).Update("following_count", following).Error
}

// Direction selects which end of an edge a count or listing is taken from.
type Direction string

const (
	// Followers selects edges pointing at the account.
	Followers Direction = "followers"
	// Following selects edges originating from the account.
	Following Direction = "following"
)

type Relationships struct {
	db *gorm.DB
}

func NewRelationships(db *gorm.DB) *Relationships {
	return &Relationships{
		db: db,
	}
}

// Create inserts a new edge with an explicit initial status.
func (r *Relationships) Create(followerID, followingID snowflake.ID, status RelationshipStatus) (*Relationship, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}
	rel := Relationship{
		FollowerID:  followerID,
		FollowingID: followingID,
		Status:      status,
	}
	if err := r.db.Create(&rel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEdge
		}
		return nil, err
	}
	return &rel, nil
}

// Find returns the edge between the ordered pair.
func (r *Relationships) Find(followerID, followingID snowflake.ID) (*Relationship, error) {
	var rel Relationship
	err := r.db.Take(&rel, "follower_id = ? and following_id = ?", followerID, followingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rel, nil
}

// UpdateStatus moves the edge from expected to status. The expected status is
// part of the UPDATE's predicate, so two racing transitions resolve to one
// winner; the loser sees ErrStatusMismatch. ErrNotFound reports that no edge
// exists at all.
func (r *Relationships) UpdateStatus(followerID, followingID snowflake.ID, status, expected RelationshipStatus) (*Relationship, error) {
	rel := Relationship{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	res := r.db.Model(&rel).Where("status = ?", expected).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.Find(followerID, followingID); err != nil {
			return nil, err
		}
		return nil, ErrStatusMismatch
	}
	rel.Status = status
	return &rel, nil
}

// Delete removes the edge, but only while it has the expected status; a cancel
// applies to a pending edge, an unfollow to an accepted one.
func (r *Relationships) Delete(followerID, followingID snowflake.ID, expected RelationshipStatus) error {
	rel := Relationship{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	res := r.db.Where("status = ?", expected).Delete(&rel)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.Find(followerID, followingID); err != nil {
			return err
		}
		return ErrInvalidTransition
	}
	return nil
}

// RejectPending transitions every pending edge targeting the account to
// rejected in a single statement. Counts are unaffected; only accepted edges
// are counted.
func (r *Relationships) RejectPending(followingID snowflake.ID) (int64, error) {
	res := r.db.Model(&Relationship{}).
		Where("following_id = ? and status = ?", followingID, StatusPending).
		Update("status", StatusRejected)
	return res.RowsAffected, res.Error
}

// CountByStatus counts the account's edges in the given direction and status.
func (r *Relationships) CountByStatus(accountID snowflake.ID, direction Direction, status RelationshipStatus) (int64, error) {
	var count int64
	err := r.scope(accountID, direction).Where("status = ?", status).Count(&count).Error
	return count, err
}

// ListByStatus returns a page of the account's edges in the given direction
// and status, newest first, with the far end of each edge preloaded.
func (r *Relationships) ListByStatus(accountID snowflake.ID, direction Direction, status RelationshipStatus, page, pageSize int) ([]Relationship, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page < 1 {
		page = 1
	}
	preload := "Follower"
	if direction == Following {
		preload = "Following"
	}
	var rels []Relationship
	err := r.scope(accountID, direction).
		Where("status = ?", status).
		Preload(preload).
		Order("created_at desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rels).Error
	return rels, err
}

func (r *Relationships) scope(accountID snowflake.ID, direction Direction) *gorm.DB {
	db := r.db.Model(&Relationship{})
	if direction == Following {
		return db.Where("follower_id = ?", accountID)
	}
	return db.Where("following_id = ?", accountID)
}
