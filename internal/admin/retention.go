package admin

// retention.go prunes the upload history in the background. It runs once on
// start and then every CheckInterval until the context is cancelled. A
// failed run is logged and retried at the next tick.

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/contentsheet/internal/store"
)

// RetentionConfig holds configuration for the history pruner.
// Zero values select the defaults.
type RetentionConfig struct {
	KeepDays      int           // Days of upload history to keep (default: 365)
	CheckInterval time.Duration // How often to run (default: 24h)
}

const (
	DefaultKeepDays      = 365
	DefaultCheckInterval = 24 * time.Hour
)

func (c RetentionConfig) withDefaults() RetentionConfig {
	if c.KeepDays <= 0 {
		c.KeepDays = DefaultKeepDays
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = DefaultCheckInterval
	}
	return c
}

// StartRetention prunes upload history older than cfg.KeepDays, now and
// then every cfg.CheckInterval. It blocks until ctx is cancelled.
func StartRetention(ctx context.Context, s store.Store, cfg RetentionConfig) {
	cfg = cfg.withDefaults()
	slog.Info("history retention started",
		"keep_days", cfg.KeepDays,
		"check_interval", cfg.CheckInterval,
	)

	runRetention(ctx, s, cfg, time.Now())

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("history retention stopped")
			return
		case now := <-ticker.C:
			runRetention(ctx, s, cfg, now)
		}
	}
}

// runRetention performs one prune cycle.
func runRetention(ctx context.Context, s store.Store, cfg RetentionConfig, now time.Time) int64 {
	start := time.Now()
	before := now.AddDate(0, 0, -cfg.KeepDays)

	pruned, err := s.PruneUploads(ctx, before)
	if err != nil {
		slog.Error("history prune failed", "error", err)
		return 0
	}
	slog.Info("pruned upload history",
		"entries_pruned", pruned,
		"before", before.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pruned
}
