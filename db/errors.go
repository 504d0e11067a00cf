// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Postgres SQLSTATE codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// IsUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY constraint
func IsUniqueViolation(err error) bool {
	return classify(err, pqUniqueViolation,
		[]int{sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY},
		"duplicate key value violates unique constraint", "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err came from a FOREIGN KEY constraint
func IsForeignKeyViolation(err error) bool {
	return classify(err, pqForeignKeyViolation,
		[]int{sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY},
		"violates foreign key constraint", "FOREIGN KEY constraint failed")
}

// IsCheckViolation reports whether err came from a CHECK constraint
func IsCheckViolation(err error) bool {
	return classify(err, pqCheckViolation,
		[]int{sqlite3.SQLITE_CONSTRAINT_CHECK},
		"violates check constraint", "CHECK constraint failed")
}

func classify(err error, pqCode string, liteCodes []int, messages ...string) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqCode
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		for _, code := range liteCodes {
			if liteErr.Code() == code {
				return true
			}
		}
		// Without extended result codes only SQLITE_CONSTRAINT comes back
	}

	msg := err.Error()
	for _, m := range messages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
