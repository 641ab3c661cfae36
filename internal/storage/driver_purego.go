//go:build purego

package storage

// Built with -tags purego: modernc.org/sqlite, no C compiler required.
//
//   CGO_ENABLED=0 go build -tags purego ./...

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the database/sql driver in use.
	DriverName = "sqlite"

	// BuildMode describes the current build configuration.
	BuildMode = "purego"
)

func dataSourceName(path string) string {
	return path + "?_pragma=case_sensitive_like(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)&_pragma=foreign_keys(1)"
}
