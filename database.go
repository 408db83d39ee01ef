package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/microsoft/go-mssqldb"
)

// Database wraps an open connection together with the driver it was
// opened with. Dialect names and database/sql driver names are the same
// on purpose, so one string selects both.
type Database struct {
	DB      *sql.DB
	Driver  string
	ConnStr string
}

func OpenDatabase(ctx context.Context, driver, connStr string) (*Database, error) {
	slog.Debug("opening database connection", "driver", driver)

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Debug("database connection ready", "driver", driver)
	return &Database{
		DB:      db,
		Driver:  driver,
		ConnStr: connStr,
	}, nil
}

func (d *Database) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
