package store

import (
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// PostgresStore is the Store implementation for a shared, multi-user
// deployment: jackc/pgx/v5 (via its stdlib driver) pooled through
// jmoiron/sqlx, grounded on the teacher's internal/storage/postgres.go.
type PostgresStore struct{ *sqlStore }

// NewPostgresStore connects to dsn and ensures the schema exists.
func NewPostgresStore(dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply postgres schema: %w", err)
	}

	return &PostgresStore{&sqlStore{db: db, logger: logger, dbName: "postgres"}}, nil
}
