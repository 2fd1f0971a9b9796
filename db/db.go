package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	glebarez "github.com/glebarez/sqlite"
	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/termfx/jsxfix/models"
)

// Connect opens the run-history database and migrates its schema. A plain
// path opens a local SQLite file through the pure-Go driver; a libsql or
// http(s) URL connects to a remote Turso instance.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	dialector, conn, err := dialectorFor(dsn)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, config)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// Enable foreign keys for SQLite
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}

	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return gdb, nil
}

func dialectorFor(dsn string) (gorm.Dialector, *sql.DB, error) {
	if !isURL(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return glebarez.Open(dsn), nil, nil
	}

	var (
		connector driver.Connector
		err       error
	)
	if token := os.Getenv("JSXFIX_LIBSQL_AUTH_TOKEN"); token != "" {
		connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
	} else {
		connector, err = libsql.NewConnector(dsn)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create libsql connector: %w", err)
	}

	conn := sql.OpenDB(connector)
	return gormsqlite.New(gormsqlite.Config{
		DriverName: "libsql",
		Conn:       conn,
		DSN:        dsn,
	}), conn, nil
}

// isURL reports whether the DSN addresses a remote database rather than a
// local file.
func isURL(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") ||
		strings.HasPrefix(dsn, "https://") ||
		strings.HasPrefix(dsn, "libsql:")
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Run{},
		&models.FileRun{},
	)
}
