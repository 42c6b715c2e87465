package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/venus/internal/filex"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect names the SQL flavour behind a *sql.DB.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const (
	sqlitePrefix  = "sqlite:"
	sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
)

// ParseDSN picks the driver for dsn. "sqlite:<path>" selects modernc SQLite,
// anything else is handed to pgx.
func ParseDSN(dsn string) (driver string, source string, dialect Dialect) {
	if rest, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		if strings.Contains(rest, "?") {
			return "sqlite", rest + "&" + sqlitePragmas, DialectSQLite
		}
		return "sqlite", rest + "?" + sqlitePragmas, DialectSQLite
	}
	return "pgx", dsn, DialectPostgres
}

// Open opens and pings the database named by dsn. For file-backed SQLite the
// parent directory is created first.
func Open(dsn string) (*sql.DB, Dialect, error) {
	driver, source, dialect := ParseDSN(dsn)

	if dialect == DialectSQLite {
		path, _, _ := strings.Cut(source, "?")
		if path != ":memory:" && !strings.HasPrefix(path, "file:") {
			if err := filex.EnsureParentDir(path); err != nil {
				return nil, "", fmt.Errorf("prepare sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		// single writer; also keeps :memory: databases on one connection
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}

	return db, dialect, nil
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either supported driver.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}

	return false
}
