// Package api implements the HTTP API consumed by the web front end.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/flocksocial/flock/internal/httpx"
	"github.com/flocksocial/flock/internal/identity"
	"github.com/flocksocial/flock/models"
	"github.com/flocksocial/flock/workflow"
	"gorm.io/gorm"
)

type Env struct {
	*models.Env

	// Engine owns every relationship mutation.
	Engine *workflow.Engine

	// WebhookSecret authenticates account events from the identity provider.
	WebhookSecret []byte

	// Identity, when set, is consulted to mirror provider state onto newly
	// created accounts.
	Identity *identity.Client
}

// authenticate resolves the bearer token attached to the request to the
// account it was issued to.
func (e *Env) authenticate(r *http.Request) (*models.Account, error) {
	bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if bearer == "" {
		bearer = r.URL.Query().Get("access_token")
	}
	var token models.Token
	if err := e.DB.Joins("Account").First(&token, "access_token = ?", bearer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.Error(http.StatusUnauthorized, err)
		}
		return nil, err
	}
	return token.Account, nil
}

// mapError translates the workflow error taxonomy to HTTP statuses. Each
// outcome keeps its own message so the front end can tell "already following"
// from "request no longer valid".
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrSelfFollow):
		return httpx.Error(http.StatusUnprocessableEntity, err)
	case errors.Is(err, models.ErrDuplicateEdge),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrStatusMismatch):
		return httpx.Error(http.StatusConflict, err)
	case errors.Is(err, models.ErrUnauthorized):
		return httpx.Error(http.StatusForbidden, err)
	case errors.Is(err, models.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return httpx.Error(http.StatusNotFound, err)
	default:
		return err
	}
}
