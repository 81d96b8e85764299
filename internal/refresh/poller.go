// ABOUTME: Ticker-driven polling loop refreshing both conversation queues
// ABOUTME: Per-tick fetch failures are logged and retried on the next tick

package refresh

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPollInterval is how often the queues are refreshed when the
// config does not say otherwise.
const DefaultPollInterval = 5 * time.Second

// Loader is what the poller drives on every tick.
type Loader interface {
	LoadActiveChats(ctx context.Context) error
	LoadPendingChats(ctx context.Context) error
}

// Poller refreshes both queues on a fixed interval. A failed fetch leaves
// the previously displayed list authoritative; the next tick is the retry.
type Poller struct {
	loader   Loader
	interval time.Duration
	logger   *slog.Logger
}

// NewPoller creates a poller. interval <= 0 selects DefaultPollInterval.
func NewPoller(loader Loader, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		loader:   loader,
		interval: interval,
		logger:   logger.With("component", "poller"),
	}
}

// Run polls until ctx is cancelled. The first refresh happens immediately,
// not one interval in.
func (p *Poller) Run(ctx context.Context) {
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.tick(ctx)
		case <-ctx.Done():
			p.logger.Debug("poller stopped", "reason", ctx.Err())
			return
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if err := p.loader.LoadActiveChats(ctx); err != nil {
		p.logger.Warn("active queue refresh failed", "error", err)
	}
	if err := p.loader.LoadPendingChats(ctx); err != nil {
		p.logger.Warn("pending queue refresh failed", "error", err)
	}
}
