package config

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// NewPostgresConnection opens a PostgreSQL pool sized from the environment.
// Defaults suit a single web-server instance serving the agency site.
func NewPostgresConnection(dbURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(getInt("DB_MAX_OPEN_CONNS", 25))
	db.SetMaxIdleConns(getInt("DB_MAX_IDLE_CONNS", 5))
	db.SetConnMaxLifetime(getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute))

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
