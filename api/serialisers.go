package api

import (
	"github.com/flocksocial/flock/internal/snowflake"
	"github.com/flocksocial/flock/models"
)

// serialisers for API responses.

type Account struct {
	ID             snowflake.ID `json:"id,string"`
	Username       string       `json:"username"`
	DisplayName    string       `json:"display_name"`
	FullName       string       `json:"full_name"`
	Avatar         string       `json:"avatar"`
	Bio            string       `json:"bio"`
	Website        string       `json:"website"`
	Country        string       `json:"country"`
	Private        bool         `json:"private"`
	EmailVerified  bool         `json:"email_verified"`
	CreatedAt      string       `json:"created_at"`
	FollowersCount int32        `json:"followers_count"`
	FollowingCount int32        `json:"following_count"`
}

// An AccountCard is the redacted shape: enough to render a list entry or a
// locked profile, nothing a private account considers profile data.
type AccountCard struct {
	ID             snowflake.ID `json:"id,string"`
	Username       string       `json:"username"`
	DisplayName    string       `json:"display_name"`
	Avatar         string       `json:"avatar"`
	Private        bool         `json:"private"`
	FollowersCount int32        `json:"followers_count"`
	FollowingCount int32        `json:"following_count"`
}

type Relationship struct {
	FollowerID  snowflake.ID `json:"follower_id,string"`
	FollowingID snowflake.ID `json:"following_id,string"`
	Status      string       `json:"status"`
	CreatedAt   string       `json:"created_at"`
}

type Notification struct {
	ID        snowflake.ID `json:"id,string"`
	Type      string       `json:"type"`
	Message   string       `json:"message"`
	Read      bool         `json:"read"`
	CreatedAt string       `json:"created_at"`
	From      *AccountCard `json:"from"`
}

const timeFormat = "2006-01-02T15:04:05.000Z"

func serialiseAccount(a *models.Account) *Account {
	return &Account{
		ID:             a.ID,
		Username:       a.Username,
		DisplayName:    a.DisplayName,
		FullName:       a.FullName,
		Avatar:         a.Avatar,
		Bio:            a.Bio,
		Website:        a.Website,
		Country:        a.Country,
		Private:        a.IsPrivate,
		EmailVerified:  a.EmailVerified,
		CreatedAt:      a.CreatedAt().UTC().Format(timeFormat),
		FollowersCount: a.FollowersCount,
		FollowingCount: a.FollowingCount,
	}
}

func serialiseAccountCard(a *models.Account) *AccountCard {
	return &AccountCard{
		ID:             a.ID,
		Username:       a.Username,
		DisplayName:    a.DisplayName,
		Avatar:         a.Avatar,
		Private:        a.IsPrivate,
		FollowersCount: a.FollowersCount,
		FollowingCount: a.FollowingCount,
	}
}

func serialiseRelationship(rel *models.Relationship) *Relationship {
	return &Relationship{
		FollowerID:  rel.FollowerID,
		FollowingID: rel.FollowingID,
		Status:      string(rel.Status),
		CreatedAt:   rel.CreatedAt.UTC().Format(timeFormat),
	}
}

func serialiseNotification(n *models.Notification) *Notification {
	var from *AccountCard
	if n.FromAccount != nil {
		from = serialiseAccountCard(n.FromAccount)
	}
	return &Notification{
		ID:        n.ID,
		Type:      string(n.Type),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt().UTC().Format(timeFormat),
		From:      from,
	}
}
