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

func AccountsShow(env *Env, w http.ResponseWriter, r *http.Request) error {
	user, err := env.authenticate(r)
	if err != nil {
		return err
	}
	targetID, err := snowflake.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return httpx.Error(http.StatusBadRequest, err)
	}
	profile, err := env.Engine.GetProfile(r.Context(), user.ID, targetID)
	if err != nil {
		return mapError(err)
	}
	if profile.Redacted {
		return to.JSON(w, serialiseAccountCard(profile.Account))
	}
	return to.JSON(w, serialiseAccount(profile.Account))
}

func AccountsUpdate(env *Env, w http.ResponseWriter, r *http.Request) error {
	user, err := env.authenticate(r)
	if err != nil {
		return err
	}
	var params struct {
		DisplayName *string `json:"display_name" schema:"display_name"`
		FullName    *string `json:"full_name" schema:"full_name"`
		Avatar      *string `json:"avatar" schema:"avatar"`
		Bio         *string `json:"bio" schema:"bio"`
		Website     *string `json:"website" schema:"website"`
		Country     *string `json:"country" schema:"country"`
		Private     *bool   `json:"private" schema:"private"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}

	fields := map[string]any{}
	for column, value := range map[string]*string{
		"display_name": params.DisplayName,
		"full_name":    params.FullName,
		"avatar":       params.Avatar,
		"bio":          params.Bio,
		"website":      params.Website,
		"country":      params.Country,
	} {
		if value != nil {
			fields[column] = *value
		}
	}
	account, err := models.NewAccounts(env.DB).Update(user, fields)
	if err != nil {
		return err
	}
	if params.Private != nil {
		// the privacy flag cascades, so it goes through the engine
		account, err = env.Engine.SetPrivacy(r.Context(), user.ID, *params.Private)
		if err != nil {
			return mapError(err)
		}
	}
	return to.JSON(w, serialiseAccount(account))
}

func AccountsFollowersIndex(env *Env, w http.ResponseWriter, r *http.Request) error {
	return listEdges(env, w, r, models.Followers)
}

func AccountsFollowingIndex(env *Env, w http.ResponseWriter, r *http.Request) error {
	return listEdges(env, w, r, models.Following)
}

func listEdges(env *Env, w http.ResponseWriter, r *http.Request, direction models.Direction) error {
	user, err := env.authenticate(r)
	if err != nil {
		return err
	}
	targetID, err := snowflake.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return httpx.Error(http.StatusBadRequest, err)
	}
	var params struct {
		Page     int    `schema:"page"`
		PageSize int    `schema:"page_size"`
		Q        string `schema:"q"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	list := env.Engine.ListFollowers
	if direction == models.Following {
		list = env.Engine.ListFollowing
	}
	accounts, err := list(r.Context(), user.ID, targetID, params.Page, params.PageSize, params.Q)
	if err != nil {
		return mapError(err)
	}
	return to.JSON(w, algorithms.Map(accounts, serialiseAccountCard))
}
