// database/bootstrap.go
package database

import (
	"database/sql"
	"fmt"
	"strings"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"greenhouse/entities"
)

// OpenSQLite opens the local mirror/journal database and migrates it.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Mirrors written before rows were keyed by contract have a single-column
	// primary key; SQLite cannot alter it, so the table is rebuilt.
	if err := migrateCropsKeyByContract(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := db.AutoMigrate(
		&entities.Crop{},
		&entities.Operation{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

// migrateCropsKeyByContract drops a crops table that lacks the contract
// column. The table is a disposable mirror and is re-read from the
// contract on the next directory load.
func migrateCropsKeyByContract(db *gorm.DB) error {
	var tbl string
	if err := db.Raw(`SELECT name FROM sqlite_master WHERE type='table' AND name='crops'`).Scan(&tbl).Error; err != nil {
		return fmt.Errorf("check table exist: %w", err)
	}
	if tbl == "" {
		return nil
	}

	type colInfo struct {
		Cid       int
		Name      string
		Type      string
		NotNull   int
		DfltValue sql.NullString
		Pk        int
	}
	var cols []colInfo
	if err := db.Raw(`PRAGMA table_info(crops)`).Scan(&cols).Error; err != nil {
		return fmt.Errorf("table_info: %w", err)
	}
	for _, c := range cols {
		if strings.EqualFold(c.Name, "contract") {
			return nil
		}
	}
	return db.Exec(`DROP TABLE crops`).Error
}
