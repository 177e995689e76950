package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/flocksocial/flock/internal/httpx"
	"github.com/flocksocial/flock/internal/snowflake"
	"github.com/flocksocial/flock/internal/to"
	"github.com/flocksocial/flock/internal/webhook"
	"github.com/flocksocial/flock/models"
	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdentityCreate handles the identity provider's account-created event. It
// creates the matching account row exactly once, public by default, and issues
// the bearer token the front end will use against this API.
func IdentityCreate(env *Env, w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		return httpx.Error(http.StatusBadRequest, err)
	}
	if err := webhook.Verify(env.WebhookSecret, body, r.Header.Get("X-Webhook-Signature")); err != nil {
		return httpx.Error(http.StatusUnauthorized, err)
	}

	var event struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Metadata struct {
			FullName string `json:"full_name"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		return httpx.Error(http.StatusBadRequest, err)
	}
	if event.Email == "" {
		return httpx.Error(http.StatusBadRequest, fmt.Errorf("event missing email"))
	}

	// one account per identity; replaying the event is not an error
	accounts := models.NewAccounts(env.DB)
	if existing, err := accounts.FindByEmail(event.Email); err == nil {
		return to.JSON(w, serialiseAccount(existing))
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	verified := false
	fullName := event.Metadata.FullName
	if env.Identity != nil {
		// best effort: mirror what the provider has confirmed so far
		if user, err := env.Identity.User(r.Context(), event.ID); err != nil {
			env.Log().Warn("identity lookup failed", "id", event.ID, "error", err)
		} else {
			verified = user.Confirmed()
			if fullName == "" {
				fullName = user.Metadata.FullName
			}
		}
	}

	params := models.AccountParams{
		ID:        snowflake.Now(),
		Email:     event.Email,
		Username:  usernameFor(event.Email),
		FullName:  fullName,
		IsPrivate: false,
		Verified:  verified,
	}
	account, err := accounts.Create(params)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// another identity already claimed the local part
		params.Username = fmt.Sprintf("%s-%d", params.Username, params.ID%10000)
		account, err = accounts.Create(params)
	}
	if err != nil {
		return err
	}
	token := models.Token{
		AccessToken: uuid.New().String(),
		AccountID:   account.ID,
	}
	if err := env.DB.Create(&token).Error; err != nil {
		return err
	}
	w.WriteHeader(http.StatusCreated)
	return to.JSON(w, map[string]any{
		"account":      serialiseAccount(account),
		"access_token": token.AccessToken,
	})
}

// usernameFor derives a username from the email's local part.
func usernameFor(email string) string {
	return strings.Split(email, "@")[0]
}
