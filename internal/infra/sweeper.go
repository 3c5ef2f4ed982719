package infra

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RunEvery calls fn on a ticker for the lifetime of the fx app.
func RunEvery(lc fx.Lifecycle, interval time.Duration, name string, log *zap.Logger, fn func(ctx context.Context) (int64, error)) {
	if interval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						n, err := fn(ctx)
						if err != nil {
							log.Warn("sweep failed", zap.String("sweeper", name), zap.Error(err))
							continue
						}
						if n > 0 {
							log.Debug("swept expired entries", zap.String("sweeper", name), zap.Int64("removed", n))
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
