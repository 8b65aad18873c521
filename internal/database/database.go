package database

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// InitDB opens the database and brings the schema up to date with goose.
// With an empty primaryURL it opens a local SQLite file (or :memory:);
// otherwise it connects to the remote Turso database. The returned teardown
// closes the connection.
func InitDB(dbName string, primaryURL string, authToken string, migrationsDir string) (*sql.DB, func(), error) {
	var db *sql.DB
	var err error

	if primaryURL == "" {
		log.Info("Initializing local SQLite database", "path", dbName)
		db, err = sql.Open("sqlite3", dbName)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local database: %w", err)
		}
	} else {
		log.Info("Initializing Turso database", "url", primaryURL)
		db, err = sql.Open("libsql", primaryURL+"?authToken="+authToken)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db %s: %w", primaryURL, err)
		}
	}

	// Foreign key support is not enabled by default in SQLite.
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}

	log.Info("Database initialized successfully")
	return db, teardown, nil
}
