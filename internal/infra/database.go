package infra

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"hairline/internal/models/db_models"
)

// MemoryDSN selects an in-process sqlite database instead of postgres.
const MemoryDSN = "memory"

func OpenDatabase(dsn string, log *zap.Logger) (*gorm.DB, error) {
	dialector := postgres.Open(dsn)
	if dsn == MemoryDSN || dsn == "" {
		// shared cache keeps one database across the pool's connections
		dialector = sqlite.Open("file:hairline?mode=memory&cache=shared")
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(&db_models.FlowState{}, &db_models.Session{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("database ready", zap.String("driver", db.Dialector.Name()))
	return db, nil
}

func CloseDatabase(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("get database handle", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("close database", zap.Error(err))
		return
	}
	log.Info("database connection closed")
}
