package repo

import (
	"PassVault/internal/model"
	"fmt"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// InitDB открывает соединение с БД и применяет миграции моделей.
// Для SQLite используется драйвер modernc.org/sqlite (без cgo).
func InitDB(driver, dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch driver {
	case DriverPostgres:
		dial = postgres.Open(dsn)
	case DriverSQLite:
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт/обновляет таблицы users, records и secrets.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.StoredRecord{}, &model.LegacySecret{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
