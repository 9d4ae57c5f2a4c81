// Package sweeper periodically removes session records whose expiry has
// passed. It is best effort: validation never relies on it having run.
package sweeper

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/metrics"
)

// Expirer deletes records whose expiry is not after now.
type Expirer interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper calls DeleteExpired on a fixed interval.
type Sweeper struct {
	store    Expirer
	interval time.Duration
	now      func() time.Time
	log      logging.Logger
	metrics  *metrics.Registry
}

// New returns a Sweeper running every interval. m may be nil.
func New(store Expirer, interval time.Duration, log logging.Logger, m *metrics.Registry) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
		log:      log.With("module", "sweeper"),
		metrics:  m,
	}
}

// SweepOnce runs a single pass and reports how many records were removed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	s.metrics.ObserveSweep(n, err)
	if err != nil {
		s.log.Error(ctx, "sweep failed", "error", err)
		return 0, err
	}
	if n > 0 {
		s.log.Info(ctx, "expired sessions removed", "count", n)
	}
	return n, nil
}

// Run sweeps once immediately and then every interval until ctx is done.
// Failed passes are logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	_, _ = s.SweepOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = s.SweepOnce(ctx)
		}
	}
}
