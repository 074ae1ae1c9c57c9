package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func Init(driver, connection string) (*sqlx.DB, error) {
	memory := false
	if driver == "sqlite" {
		memory = connection == ":memory:" || strings.Contains(connection, "mode=memory")
		if memory {
			connection = "file::memory:"
		} else {
			// SQLite: create data directory if needed
			dir := filepath.Dir(connection)
			err := os.MkdirAll(dir, 0755)
			if err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		// Deletes cascade through foreign keys, so every connection
		// must enforce them.
		if !strings.Contains(connection, "_pragma") {
			sep := "?"
			if strings.Contains(connection, "?") {
				sep = "&"
			}
			connection += sep + "_pragma=foreign_keys(1)"
		}
	}

	db, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if memory {
		// A pooled in-memory database is one database per connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	slog.Info("database connected", "driver", driver)

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
