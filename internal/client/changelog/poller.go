package changelog

import (
	"context"
	"fmt"
	"time"

	"github.com/stockroomhq/stockroom-backend/internal/changelog"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

// DefaultInterval is the fixed refresh cadence for the history panel.
const DefaultInterval = 5 * time.Second

// FetchFunc retrieves the caller's history, most recent first.
type FetchFunc func(ctx context.Context) ([]changelog.EntryDTO, error)

// UpdateFunc receives each successful fetch result.
type UpdateFunc func(entries []changelog.EntryDTO)

// Poller refreshes the history on a fixed interval while its context is
// live. Fetch failures are logged and the next tick retries; the ticker is
// always released on exit.
type Poller struct {
	interval time.Duration
	fetch    FetchFunc
	onUpdate UpdateFunc
	logg     *logger.Logger
}

// NewPoller constructs a poller. A non-positive interval falls back to the
// default cadence.
func NewPoller(interval time.Duration, fetch FetchFunc, onUpdate UpdateFunc, logg *logger.Logger) (*Poller, error) {
	if fetch == nil {
		return nil, fmt.Errorf("fetch function is required")
	}
	if onUpdate == nil {
		return nil, fmt.Errorf("update function is required")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		interval: interval,
		fetch:    fetch,
		onUpdate: onUpdate,
		logg:     logg,
	}, nil
}

// Run fetches immediately, then on every tick until ctx is canceled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	entries, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil && p.logg != nil {
			p.logg.Warn(ctx, fmt.Sprintf("history refresh failed: %v", err))
		}
		return
	}
	p.onUpdate(entries)
}
