package models

import (
	"errors"
	"time"

	"github.com/flocksocial/flock/internal/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type NotificationType string

const (
	// NotificationFollowRequest tells a private account someone wants to follow them.
	NotificationFollowRequest NotificationType = "follow_request"
	// NotificationFollowAccepted tells a follower their request was approved.
	NotificationFollowAccepted NotificationType = "follow_accepted"
	// NotificationNewFollower tells a public account they gained a follower.
	NotificationNewFollower NotificationType = "new_follower"
)

func (NotificationType) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "postgres":
		return "enum('follow_request', 'follow_accepted', 'new_follower')"
	case "sqlite":
		return "TEXT"
	default:
		return ""
	}
}

// A Notification is one entry in an account's notification log. Rows are
// written only by the workflow engine; the only mutation afterwards is
// flipping Read.
type Notification struct {
	snowflake.ID  `gorm:"primarykey;autoIncrement:false"`
	AccountID     snowflake.ID `gorm:"index;not null"`
	Account       *Account     `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	FromAccountID snowflake.ID `gorm:"not null"`
	FromAccount   *Account     `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	Type          NotificationType
	Message       string `gorm:"size:255;not null"`
	Read          bool   `gorm:"not null;default:false"`
}

// CreatedAt is encoded in the notification's ID.
func (n *Notification) CreatedAt() time.Time {
	return n.ID.ToTime()
}

type Notifications struct {
	db *gorm.DB
}

func NewNotifications(db *gorm.DB) *Notifications {
	return &Notifications{db: db}
}

// Append writes a new entry to the recipient's log.
func (n *Notifications) Append(accountID, fromAccountID snowflake.ID, kind NotificationType, message string) (*Notification, error) {
	entry := Notification{
		ID:            snowflake.Now(),
		AccountID:     accountID,
		FromAccountID: fromAccountID,
		Type:          kind,
		Message:       message,
	}
	if err := n.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListForUser returns a page of the account's notifications, newest first.
func (n *Notifications) ListForUser(accountID snowflake.ID, limit, offset int) ([]Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []Notification
	err := n.db.Where("account_id = ?", accountID).
		Preload("FromAccount").
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}

// MarkRead flips the read flag on a single entry. Only the recipient may do so.
func (n *Notifications) MarkRead(id snowflake.ID, requester snowflake.ID) error {
	var entry Notification
	if err := n.db.Take(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if entry.AccountID != requester {
		return ErrUnauthorized
	}
	return n.db.Model(&entry).Update("read", true).Error
}

// MarkAllRead flips the read flag on every unread entry for the account and
// reports how many were flipped.
func (n *Notifications) MarkAllRead(accountID snowflake.ID) (int64, error) {
	// "read" is a reserved word on mysql, so let gorm quote it.
	res := n.db.Model(&Notification{}).
		Where(map[string]any{"account_id": accountID, "read": false}).
		Update("read", true)
	return res.RowsAffected, res.Error
}

// PurgeRead deletes read entries created before the cutoff. The log is
// append-only from the workflow's point of view; retention is housekeeping.
func (n *Notifications) PurgeRead(olderThan time.Time) (int64, error) {
	res := n.db.Where(map[string]any{"read": true}).
		Where("id < ?", snowflake.TimeToID(olderThan)).
		Delete(&Notification{})
	return res.RowsAffected, res.Error
}
