package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/flocksocial/flock/api"
	"github.com/flocksocial/flock/internal/httpx"
	"github.com/flocksocial/flock/internal/identity"
	"github.com/flocksocial/flock/internal/streaming"
	"github.com/flocksocial/flock/media"
	"github.com/flocksocial/flock/models"
	"github.com/flocksocial/flock/workers"
	"github.com/flocksocial/flock/workflow"
	"github.com/pkg/group"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ServeCmd struct {
	Addr          string `help:"address to listen" default:"127.0.0.1:8080"`
	WebhookSecret string `required:"" env:"WEBHOOK_SECRET" help:"shared secret the identity provider signs webhooks with"`
	IdentityURL   string `env:"IDENTITY_URL" help:"base URL of the identity provider's admin API"`
	IdentityKey   string `env:"IDENTITY_KEY" help:"service role key for the identity provider's admin API"`
}

func (s *ServeCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}
	if err := configureDB(db); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr))
	env := &models.Env{
		DB:     db,
		Mux:    &streaming.Mux{},
		Logger: logger,
	}
	engine := workflow.New(db, env.Mux, logger)

	var idc *identity.Client
	if s.IdentityURL != "" {
		idc = identity.NewClient(s.IdentityURL, s.IdentityKey)
	}
	apiEnv := func(r *http.Request) *api.Env {
		return &api.Env{
			Env:           env,
			Engine:        engine,
			WebhookSecret: []byte(s.WebhookSecret),
			Identity:      idc,
		}
	}
	mediaEnv := func(r *http.Request) *models.Env {
		return env
	}

	c := chi.NewRouter()
	c.Use(middleware.RequestID)
	c.Use(middleware.RealIP)
	c.Use(middleware.Logger)
	c.Use(middleware.Recoverer)

	c.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Patch("/update", httpx.HandlerFunc(apiEnv, api.AccountsUpdate))
			r.Get("/{id:[0-9]+}", httpx.HandlerFunc(apiEnv, api.AccountsShow))
			r.Get("/{id:[0-9]+}/followers", httpx.HandlerFunc(apiEnv, api.AccountsFollowersIndex))
			r.Get("/{id:[0-9]+}/following", httpx.HandlerFunc(apiEnv, api.AccountsFollowingIndex))
			r.Post("/{id:[0-9]+}/follow", httpx.HandlerFunc(apiEnv, api.RelationshipsCreate))
			r.Post("/{id:[0-9]+}/unfollow", httpx.HandlerFunc(apiEnv, api.RelationshipsDestroy))
			r.Post("/{id:[0-9]+}/cancel_request", httpx.HandlerFunc(apiEnv, api.RelationshipsCancel))
		})
		r.Route("/follow_requests", func(r chi.Router) {
			r.Get("/", httpx.HandlerFunc(apiEnv, api.FollowRequestsIndex))
			r.Post("/{id:[0-9]+}/authorize", httpx.HandlerFunc(apiEnv, api.FollowRequestsAuthorize))
			r.Post("/{id:[0-9]+}/reject", httpx.HandlerFunc(apiEnv, api.FollowRequestsReject))
		})
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", httpx.HandlerFunc(apiEnv, api.NotificationsIndex))
			r.Get("/stream", httpx.HandlerFunc(apiEnv, api.NotificationsStream))
			r.Post("/{id:[0-9]+}/dismiss", httpx.HandlerFunc(apiEnv, api.NotificationsDismiss))
			r.Post("/clear", httpx.HandlerFunc(apiEnv, api.NotificationsClear))
		})
	})
	c.Post("/webhooks/identity", httpx.HandlerFunc(apiEnv, api.IdentityCreate))
	c.Get("/media/avatar/{id:[0-9]+}", httpx.HandlerFunc(mediaEnv, media.Avatar))

	svr := &http.Server{
		Addr:         s.Addr,
		Handler:      c,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	g := group.New(context.Background())
	g.Add(func(ctx context.Context) error {
		errc := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", s.Addr)
			errc <- svr.ListenAndServe()
		}()
		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return svr.Shutdown(shutdownCtx)
		}
	})
	g.Add(workers.NewNotificationSweeper(db, logger))
	return g.Wait()
}
