// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL flavour behind a connection
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ConnectTimeout bounds how long Open keeps retrying the initial ping
const ConnectTimeout = 30 * time.Second

// ParseDialect maps a configured database type to a Dialect
func ParseDialect(databaseType string) (Dialect, error) {
	switch Dialect(databaseType) {
	case Postgres:
		return Postgres, nil
	case SQLite:
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database type %q", databaseType)
}

// DialectOf reports the dialect of an open connection
func DialectOf(db *sqlx.DB) Dialect {
	if db.DriverName() == string(Postgres) {
		return Postgres
	}
	return SQLite
}

// Placeholder returns the squirrel bind style for the dialect
func (d Dialect) Placeholder() sq.PlaceholderFormat {
	if d == Postgres {
		return sq.Dollar
	}
	return sq.Question
}

// Builder returns a squirrel statement builder bound to db's placeholder style
func Builder(db *sqlx.DB) sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(DialectOf(db).Placeholder())
}

// Open connects to the database and waits for it to answer a ping,
// retrying with exponential backoff for up to ConnectTimeout.
func Open(ctx context.Context, databaseType, databaseURL string) (*sqlx.DB, error) {
	dialect, err := ParseDialect(databaseType)
	if err != nil {
		return nil, err
	}

	dsn := databaseURL
	if dialect == SQLite {
		dsn = withForeignKeys(dsn)
	}

	conn, err := sqlx.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if dialect == SQLite {
		// SQLite serializes writers anyway; one connection also keeps
		// :memory: databases alive across calls.
		conn.SetMaxOpenConns(1)
	}

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, conn.PingContext(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(ConnectTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("database ping failed, retrying", "error", err, "retry_in", next)
		}),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}
