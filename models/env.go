package models

import (
	"github.com/flocksocial/flock/internal/streaming"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
)

type Env struct {
	// DB is the database connection.
	DB *gorm.DB
	// Mux carries live notification pushes to connected viewers.
	Mux    *streaming.Mux
	Logger *slog.Logger
}

func (e *Env) Log() *slog.Logger {
	return e.Logger
}
