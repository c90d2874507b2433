// Package db opens the embedded SQLite database the build writes to.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open creates or opens the SQLite database at path. The connection pool is
// capped at a single connection: the build is strictly single-writer and
// SQLite gains nothing from more.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("exec %s: %w", pragma, err)
		}
	}
	return conn, nil
}
