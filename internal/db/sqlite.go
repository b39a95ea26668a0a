package db

import (
	"database/sql"

	"github.com/LiorShur/NatureAccessNewUI/internal/config"

	_ "modernc.org/sqlite"
)

var pingFn = func(conn *sql.DB) error { return conn.Ping() }

// OpenSQLite opens the embedded database file that backs all persistence.
// A single connection keeps every read-modify-write cycle atomic with
// respect to other in-process callers.
func OpenSQLite(cfg config.Config) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, err
	}

	if err := pingFn(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
