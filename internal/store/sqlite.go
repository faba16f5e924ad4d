package store

import (
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// SQLiteStore is the Store implementation for local, single-developer
// runs: mattn/go-sqlite3 in WAL mode through jmoiron/sqlx, grounded on
// the teacher's internal/storage/sqlite.go.
type SQLiteStore struct{ *sqlStore }

// NewSQLiteStore opens (creating if absent) the SQLite database at path
// and ensures the schema exists.
func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite store at %s: %w", path, err)
	}

	// SQLite has no real connection pool; a single writer connection
	// avoids "database is locked" errors under WAL mode.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &SQLiteStore{&sqlStore{db: db, logger: logger, dbName: "sqlite"}}, nil
}
