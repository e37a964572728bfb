package auth

import (
	"context"
	"log/slog"
	"time"
)

type Purger interface {
	PurgeRevoked(ctx context.Context) (int64, error)
}

// RunPurger removes expired deny-list entries every interval until ctx is done.
func RunPurger(ctx context.Context, p Purger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("Revocation purger started.", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Revocation purger stopped.")
			return
		case <-ticker.C:
			n, err := p.PurgeRevoked(ctx)
			if err != nil {
				slog.Error("failed to purge revoked tokens", "reason", err)
				continue
			}
			if n > 0 {
				slog.Info("purged revoked tokens", "count", n)
			}
		}
	}
}
