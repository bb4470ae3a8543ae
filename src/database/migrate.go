package database

import (
	"context"
	"fmt"

	"finboard/src/config"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Migrate runs a goose command ("up", "down", "status", ...) against the SQL files in dir.
func Migrate(ctx context.Context, cfg *config.Config, dir string, command string) error {
	sqlCfg, err := ResolveSQLConfig(ctx, cfg)
	if err != nil {
		return err
	}

	db, err := gorm.Open(postgres.Open(sqlCfg.DSN()), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB from GORM DB: %w", err)
	}
	defer sqlDB.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.RunContext(ctx, command, sqlDB, dir)
}
