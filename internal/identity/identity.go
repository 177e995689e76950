// Package identity is a read-only client for the hosted identity provider's
// admin API. The provider owns authentication; this service only mirrors the
// fields it needs onto newly created accounts.
package identity

import (
	"context"
	"net/http"

	"github.com/carlmjohnson/requests"
)

// User is the subset of the provider's user record that the service mirrors.
type User struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	EmailConfirmedAt string `json:"email_confirmed_at"`
	Metadata         struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

// Confirmed reports whether the provider has confirmed the user's email.
func (u *User) Confirmed() bool {
	return u.EmailConfirmedAt != ""
}

type Client struct {
	base       string
	serviceKey string
}

// NewClient returns a client for the provider at base, authenticating with the
// given service role key.
func NewClient(base, serviceKey string) *Client {
	return &Client{
		base:       base,
		serviceKey: serviceKey,
	}
}

// User fetches the provider's record for the given user id.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	var user User
	err := requests.URL(c.base).
		Pathf("/auth/v1/admin/users/%s", id).
		Header("Authorization", "Bearer "+c.serviceKey).
		CheckStatus(http.StatusOK).
		ToJSON(&user).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
