package memcache_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"hairline/internal/config"
	"hairline/internal/infra"
	"hairline/internal/services"
	"hairline/internal/session"
	mem "hairline/pkg/memcache"
)

// Module keeps sessions and flow state in process memory.
var Module = fx.Options(
	fx.Provide(
		provideFlowCache,
		provideSessionCache,
		func(s *mem.FlowStore) services.FlowStore { return s },
		func(s *session.MemoryStore) session.Store { return s },
	),
	fx.Invoke(registerSweepers),
)

func provideFlowCache(cfg *config.Config) *mem.FlowStore {
	return mem.NewFlowStore(cfg.Cache.FlowTTL)
}

func provideSessionCache(cfg *config.Config) *session.MemoryStore {
	return session.NewMemoryStore(cfg.Session.TTL)
}

func registerSweepers(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, flows *mem.FlowStore, sessions *session.MemoryStore) {
	infra.RunEvery(lc, cfg.Cache.SweepInterval, "memory_stores", log, func(context.Context) (int64, error) {
		return int64(flows.Sweep() + sessions.Sweep()), nil
	})
}
