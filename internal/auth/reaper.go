package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/stockroomhq/stockroom-backend/internal/users"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

const reapInterval = 10 * time.Minute

// DemoReaper deletes throwaway demo accounts once their session lifetime
// has lapsed. Products and change log entries cascade at the database
// level, so one delete clears the whole clone.
type DemoReaper struct {
	users    *users.Repository
	ttl      time.Duration
	interval time.Duration
	logg     *logger.Logger
}

// NewDemoReaper constructs the reaper. The cutoff tracks the demo token
// TTL: an account older than its token cannot be used anymore.
func NewDemoReaper(userRepo *users.Repository, cfg config.DemoConfig, logg *logger.Logger) (*DemoReaper, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &DemoReaper{
		users:    userRepo,
		ttl:      cfg.TokenTTL(),
		interval: reapInterval,
		logg:     logg,
	}, nil
}

// Run reaps immediately and then on a fixed cadence until ctx is canceled.
func (r *DemoReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.ReapOnce(ctx); err != nil && ctx.Err() == nil && r.logg != nil {
			r.logg.Warn(ctx, fmt.Sprintf("demo account reap failed: %v", err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ReapOnce deletes demo accounts older than the demo TTL and returns how
// many were removed.
func (r *DemoReaper) ReapOnce(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-r.ttl)
	deleted, err := r.users.DeleteDemoExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 && r.logg != nil {
		logCtx := r.logg.WithFields(ctx, map[string]any{"deleted": deleted})
		r.logg.Info(logCtx, "reaped expired demo accounts")
	}
	return deleted, nil
}
