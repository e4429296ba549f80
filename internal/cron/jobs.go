package cronrunner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"signally/internal/docstore"
	"signally/internal/models"
)

// NotificationPurge drops stored notifications older than maxAge. Sent pushes
// are fire-and-forget; the stored copies exist only as a recent audit trail.
func NotificationPurge(docs docstore.Store, maxAge time.Duration, logger *zap.Logger) func(context.Context) {
	return func(ctx context.Context) {
		if maxAge <= 0 {
			return
		}
		cutoff := time.Now().UTC().Add(-maxAge)
		n, err := docs.DeleteOlderThan(ctx, models.KindNotification, cutoff)
		if err != nil {
			if logger != nil {
				logger.Warn("notification purge failed", zap.Error(err))
			}
			return
		}
		if n > 0 && logger != nil {
			logger.Info("purged old notifications", zap.Int64("count", n))
		}
	}
}
