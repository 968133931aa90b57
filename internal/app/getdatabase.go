package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/betterpage/betterpage/config"
)

func getDatabase(cfg config.DBConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		zap.S().Panicf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.S().Panicf("failed to get database handle: %v", err)
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}
