package orchestrator

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// Run performs an initial refresh and, if interval is positive, refreshes
// periodically until ctx is done. Refresh errors are logged and do not stop the loop.
func (o *Orchestrator) Run(ctx context.Context, interval time.Duration) error {
	o.refreshAndLog(ctx)
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			o.refreshAndLog(ctx)
		}
	}
}

func (o *Orchestrator) refreshAndLog(ctx context.Context) {
	if err := o.Refresh(ctx); err != nil {
		zlog.Warn().Err(err).Msg("refresh failed")
	}
}
