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

func NotificationsIndex(env *Env, w http.ResponseWriter, r *http.Request) error {
	user, err := env.authenticate(r)
	if err != nil {
		return err
	}
	var params struct {
		Limit  int `schema:"limit"`
		Offset int `schema:"offset"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	entries, err := models.NewNotifications(env.DB).ListForUser(user.ID, params.Limit, params.Offset)
	if err != nil {
		return err
	}
	return to.JSON(w, algorithms.Map(entries, func(n models.Notification) *Notification {
		return serialiseNotification(&n)
	}))
}

func NotificationsDismiss(env *Env, w http.ResponseWriter, r *http.Request) error {
	user, err := env.authenticate(r)
	if err != nil {
		return err
	}
	id, err := snowflake.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return httpx.Error(http.StatusBadRequest, err)
	}
	if err := models.NewNotifications(env.DB).MarkRead(id, user.ID); err != nil {
		return mapError(err)
	}
	return to.JSON(w, map[string]any{})
}

func NotificationsClear(env *Env, w http.ResponseWriter, r *http.Request) error {
	user, err := env.authenticate(r)
	if err != nil {
		return err
	}
	updated, err := models.NewNotifications(env.DB).MarkAllRead(user.ID)
	if err != nil {
		return err
	}
	return to.JSON(w, map[string]any{"updated": updated})
}
