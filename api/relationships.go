package api

import (
	"net/http"

	"github.com/flocksocial/flock/internal/algorithms"
	"github.com/flocksocial/flock/internal/httpx"
	"github.com/flocksocial/flock/internal/snowflake"
	"github.com/flocksocial/flock/internal/to"
	"github.com/flocksocial/flock/models"
	"github.com/go-chi/chi/v5"
)

func RelationshipsCreate(env *Env, w http.ResponseWriter, r *http.Request) error {
	user, targetID, err := authenticatePair(env, r)
	if err != nil {
		return err
	}
	rel, err := env.Engine.Request(r.Context(), user.ID, targetID)
	if err != nil {
		return mapError(err)
	}
	return to.JSON(w, serialiseRelationship(rel))
}

func RelationshipsDestroy(env *Env, w http.ResponseWriter, r *http.Request) error {
	user, targetID, err := authenticatePair(env, r)
	if err != nil {
		return err
	}
	if err := env.Engine.Unfollow(r.Context(), user.ID, user.ID, targetID); err != nil {
		return mapError(err)
	}
	return to.JSON(w, map[string]any{"status": "not_following"})
}

func RelationshipsCancel(env *Env, w http.ResponseWriter, r *http.Request) error {
	user, targetID, err := authenticatePair(env, r)
	if err != nil {
		return err
	}
	if err := env.Engine.CancelRequest(r.Context(), user.ID, user.ID, targetID); err != nil {
		return mapError(err)
	}
	return to.JSON(w, map[string]any{"status": "not_following"})
}

func FollowRequestsIndex(env *Env, w http.ResponseWriter, r *http.Request) error {
	user, err := env.authenticate(r)
	if err != nil {
		return err
	}
	var params struct {
		Page     int `schema:"page"`
		PageSize int `schema:"page_size"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	rels, err := env.Engine.PendingRequests(r.Context(), user.ID, params.Page, params.PageSize)
	if err != nil {
		return mapError(err)
	}
	return to.JSON(w, algorithms.Map(rels, func(rel models.Relationship) *AccountCard {
		return serialiseAccountCard(rel.Follower)
	}))
}

func FollowRequestsAuthorize(env *Env, w http.ResponseWriter, r *http.Request) error {
	user, followerID, err := authenticatePair(env, r)
	if err != nil {
		return err
	}
	rel, err := env.Engine.Accept(r.Context(), user.ID, followerID, user.ID)
	if err != nil {
		return mapError(err)
	}
	return to.JSON(w, serialiseRelationship(rel))
}

func FollowRequestsReject(env *Env, w http.ResponseWriter, r *http.Request) error {
	user, followerID, err := authenticatePair(env, r)
	if err != nil {
		return err
	}
	rel, err := env.Engine.Reject(r.Context(), user.ID, followerID, user.ID)
	if err != nil {
		return mapError(err)
	}
	return to.JSON(w, serialiseRelationship(rel))
}

// authenticatePair authenticates the request and parses the other account's
// id from the route.
func authenticatePair(env *Env, r *http.Request) (*models.Account, snowflake.ID, error) {
	user, err := env.authenticate(r)
	if err != nil {
		return nil, 0, err
	}
	id, err := snowflake.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, 0, httpx.Error(http.StatusBadRequest, err)
	}
	return user, id, nil
}
