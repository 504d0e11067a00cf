// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/foodgram/db"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrEmailTaken    = errors.New("a user with this email already exists")
	ErrUsernameTaken = errors.New("a user with this username already exists")
)

// Store reads and writes entities that are not part of a recipe's
// composition or a user relation.
type Store struct {
	db       *sqlx.DB
	sb       sq.StatementBuilderType
	mediaURL string
}

// New returns a Store over conn. mediaURL prefixes stored image paths
// when recipes are materialized.
func New(conn *sqlx.DB, mediaURL string) *Store {
	return &Store{db: conn, sb: db.Builder(conn), mediaURL: mediaURL}
}

func (s *Store) imageURL(path string) string {
	if path == "" {
		return ""
	}
	return s.mediaURL + path
}

func (s *Store) selectAll(ctx context.Context, dest any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return s.db.SelectContext(ctx, dest, query, args...)
}

func (s *Store) get(ctx context.Context, dest any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return s.db.GetContext(ctx, dest, query, args...)
}

// missingIDs returns the ids absent from table, in input order
func (s *Store) missingIDs(ctx context.Context, table string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []int64
	if err := s.selectAll(ctx, &found, s.sb.Select("id").From(table).Where(sq.Eq{"id": ids})); err != nil {
		return nil, fmt.Errorf("failed to look up %s ids: %w", table, err)
	}
	present := make(map[int64]bool, len(found))
	for _, id := range found {
		present[id] = true
	}

	var missing []int64
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
