package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"hairline/internal/config"
	"hairline/internal/infra"
	"hairline/internal/repositories"
	"hairline/internal/services"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

// Module stores sessions and flow state through gorm.
var Module = fx.Options(
	fx.Provide(
		provideDB,
		provideSealer,
		provideFlowStateRepo,
		provideFlowStore,
		provideSessionStore,
	),
	fx.Invoke(registerSweeper),
)

func provideDB(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := infra.OpenDatabase(cfg.Database.DSN, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			infra.CloseDatabase(db, log)
			return nil
		},
	})
	return db, nil
}

func provideSealer(cfg *config.Config) (*utils.Sealer, error) {
	return utils.NewSealer(cfg.Session.Secret)
}

func provideFlowStateRepo(db *gorm.DB, cfg *config.Config) repositories.FlowStateRepository {
	return repositories.NewFlowStateRepository(db, cfg.Cache.FlowTTL)
}

func provideFlowStore(repo repositories.FlowStateRepository) services.FlowStore {
	return repo
}

func provideSessionStore(db *gorm.DB, sealer *utils.Sealer, cfg *config.Config) session.Store {
	return repositories.NewSessionRepository(db, sealer, cfg.Session.TTL)
}

func registerSweeper(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, repo repositories.FlowStateRepository) {
	infra.RunEvery(lc, cfg.Cache.SweepInterval, "flow_state", log, repo.PurgeExpired)
}
