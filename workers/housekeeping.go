// Package workers contains the background loops run alongside the API server.
package workers

import (
	"context"
	"time"

	"github.com/flocksocial/flock/models"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
)

const (
	sweepInterval = time.Hour
	retainRead    = 30 * 24 * time.Hour
)

// NewNotificationSweeper returns a loop that periodically deletes read
// notifications past the retention window.
func NewNotificationSweeper(db *gorm.DB, logger *slog.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("notification sweeper started")
		defer logger.Info("notification sweeper stopped")

		db := db.WithContext(ctx)
		for {
			purged, err := models.NewNotifications(db).PurgeRead(time.Now().Add(-retainRead))
			if err != nil {
				return err
			}
			if purged > 0 {
				logger.Info("purged read notifications", "count", purged)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(sweepInterval):
				// continue
			}
		}
	}
}
