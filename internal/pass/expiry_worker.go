package pass

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunExpirySweep periodically marks pending and approved passes whose
// validity window has closed as expired. The update is a single conditional
// statement, so concurrent sweeps and live check-ins stay safe.
func RunExpirySweep(
	ctx context.Context,
	repo Repository,
	logger *zap.Logger,
	interval time.Duration,
) {
	if interval <= 0 {
		interval = time.Minute
	}

	log := logger.Named("pass.expiry")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("pass expiry sweep started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("pass expiry sweep stopped")
			return
		case <-ticker.C:
			count, err := repo.ExpireOverdue(ctx, time.Now().UTC())
			if err != nil {
				log.Error("expire overdue passes failed", zap.Error(err))
				continue
			}
			if count > 0 {
				log.Info("passes expired", zap.Int64("count", count))
			}
		}
	}
}
