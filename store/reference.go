// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/foodgram/db"
	"github.com/danielhkuo/foodgram/models"
)

func (s *Store) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := s.selectAll(ctx, &tags, s.sb.Select("id", "name", "color", "slug").From("tag").OrderBy("name")); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *Store) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	var tag models.Tag
	err := s.get(ctx, &tag, s.sb.Select("id", "name", "color", "slug").From("tag").Where(sq.Eq{"id": id}))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tag: %w", err)
	}
	return &tag, nil
}

// MissingTags returns the tag ids that do not exist
func (s *Store) MissingTags(ctx context.Context, ids []int64) ([]int64, error) {
	return s.missingIDs(ctx, "tag", ids)
}

// ListIngredients returns ingredients ordered by name. A non-empty prefix
// keeps only names starting with it, ignoring case.
func (s *Store) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	b := s.sb.Select("id", "name", "measurement_unit").From("ingredient").OrderBy("name", "id")
	if prefix != "" {
		b = b.Where(sq.Expr(`LOWER(name) LIKE ? ESCAPE '\'`, likePrefix(strings.ToLower(prefix))))
	}

	ingredients := []models.Ingredient{}
	if err := s.selectAll(ctx, &ingredients, b); err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *Store) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := s.get(ctx, &ing, s.sb.Select("id", "name", "measurement_unit").From("ingredient").Where(sq.Eq{"id": id}))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredient: %w", err)
	}
	return &ing, nil
}

// MissingIngredients returns the ingredient ids that do not exist
func (s *Store) MissingIngredients(ctx context.Context, ids []int64) ([]int64, error) {
	return s.missingIDs(ctx, "ingredient", ids)
}

// InsertTags adds tags, skipping any whose name, color or slug is already
// taken, and returns how many were inserted.
func (s *Store) InsertTags(ctx context.Context, tags []models.Tag) (int, error) {
	inserted := 0
	err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, tag := range tags {
			query, args, err := s.sb.Insert("tag").
				Columns("name", "color", "slug").
				Values(tag.Name, tag.Color, tag.Slug).
				Suffix("ON CONFLICT DO NOTHING").
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build tag insert: %w", err)
			}
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("failed to insert tag %q: %w", tag.Slug, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	return inserted, err
}

// InsertIngredients adds ingredients, skipping exact (name, unit)
// duplicates of existing rows, and returns how many were inserted.
func (s *Store) InsertIngredients(ctx context.Context, ingredients []models.Ingredient) (int, error) {
	inserted := 0
	err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		stmt := tx.Rebind(`
			INSERT INTO ingredient (name, measurement_unit)
			SELECT ?, ?
			WHERE NOT EXISTS (
				SELECT 1 FROM ingredient WHERE name = ? AND measurement_unit = ?
			)
		`)
		for _, ing := range ingredients {
			res, err := tx.ExecContext(ctx, stmt, ing.Name, ing.MeasurementUnit, ing.Name, ing.MeasurementUnit)
			if err != nil {
				return fmt.Errorf("failed to insert ingredient %q: %w", ing.Name, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	return inserted, err
}

func likePrefix(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s) + "%"
}
