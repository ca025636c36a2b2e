package main

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"finbook/models"
	"finbook/pkg/config"
)

// openDB connects to Postgres and, unless disabled in configuration, runs
// the schema migrations. Models migrate individually so a failure on one
// table does not block the others.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(&models.User{}); err != nil {
			slog.Warn("migration warning", "table", "users", "error", err)
		}
		if err := db.AutoMigrate(&models.Entry{}); err != nil {
			slog.Warn("migration warning", "table", "entries", "error", err)
		}
	}
	return db, nil
}
