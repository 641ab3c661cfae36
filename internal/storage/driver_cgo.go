//go:build !purego

package storage

// Default build: github.com/mattn/go-sqlite3 (requires cgo).

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the database/sql driver in use.
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration.
	BuildMode = "cgo"
)

func dataSourceName(path string) string {
	return path + "?_cslike=1&_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=1"
}
