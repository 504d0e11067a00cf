// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package relations

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/foodgram/db"
)

var (
	ErrAlreadyExists    = errors.New("already exists")
	ErrNotFound         = errors.New("does not exist")
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")
	ErrTargetNotFound   = errors.New("target not found")
)

// Kind is one of the user relations sharing add/remove semantics
type Kind int

const (
	Favorite Kind = iota
	ShoppingCart
	Subscription
)

type kindInfo struct {
	name         string
	table        string
	objectColumn string
	objectTable  string
}

var kinds = map[Kind]kindInfo{
	Favorite:     {name: "favorite", table: "favorite", objectColumn: "recipe_id", objectTable: "recipe"},
	ShoppingCart: {name: "shopping cart entry", table: "shopping_cart", objectColumn: "recipe_id", objectTable: "recipe"},
	Subscription: {name: "subscription", table: "subscription", objectColumn: "author_id", objectTable: "app_user"},
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a rejected toggle. Err is one of the package sentinels.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func reject(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Guard adds and removes (subject user, object) pairs. Duplicate adds are
// rejected by the table's unique constraint, not by a prior read.
type Guard struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

func NewGuard(conn *sqlx.DB) *Guard {
	return &Guard{db: conn, sb: db.Builder(conn)}
}

// Add moves the pair from absent to present
func (g *Guard) Add(ctx context.Context, kind Kind, subjectID, objectID int64) error {
	info, err := lookup(kind)
	if err != nil {
		return err
	}

	if kind == Subscription && subjectID == objectID {
		return reject(kind, ErrSelfSubscription)
	}
	if err := g.checkTarget(ctx, kind, info, objectID); err != nil {
		return err
	}

	query, args, err := g.sb.Insert(info.table).
		Columns("user_id", info.objectColumn).
		Values(subjectID, objectID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s insert: %w", kind, err)
	}

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return reject(kind, ErrAlreadyExists)
		case db.IsForeignKeyViolation(err):
			// Target deleted after the existence check
			return reject(kind, ErrTargetNotFound)
		case db.IsCheckViolation(err):
			return reject(kind, ErrSelfSubscription)
		}
		return fmt.Errorf("failed to add %s: %w", kind, err)
	}
	return nil
}

// Remove moves the pair from present to absent
func (g *Guard) Remove(ctx context.Context, kind Kind, subjectID, objectID int64) error {
	info, err := lookup(kind)
	if err != nil {
		return err
	}

	if err := g.checkTarget(ctx, kind, info, objectID); err != nil {
		return err
	}

	query, args, err := g.sb.Delete(info.table).
		Where(sq.Eq{"user_id": subjectID, info.objectColumn: objectID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s delete: %w", kind, err)
	}

	res, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", kind, err)
	}
	if n == 0 {
		return reject(kind, ErrNotFound)
	}
	return nil
}

// Exists reports whether the pair is present
func (g *Guard) Exists(ctx context.Context, kind Kind, subjectID, objectID int64) (bool, error) {
	info, err := lookup(kind)
	if err != nil {
		return false, err
	}

	query, args, err := g.sb.Select("COUNT(*)").
		From(info.table).
		Where(sq.Eq{"user_id": subjectID, info.objectColumn: objectID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build %s lookup: %w", kind, err)
	}

	var n int
	if err := g.db.GetContext(ctx, &n, query, args...); err != nil {
		return false, fmt.Errorf("failed to look up %s: %w", kind, err)
	}
	return n > 0, nil
}

func (g *Guard) checkTarget(ctx context.Context, kind Kind, info kindInfo, objectID int64) error {
	query, args, err := g.sb.Select("COUNT(*)").From(info.objectTable).Where(sq.Eq{"id": objectID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s target lookup: %w", kind, err)
	}

	var n int
	if err := g.db.GetContext(ctx, &n, query, args...); err != nil {
		return fmt.Errorf("failed to look up %s target: %w", kind, err)
	}
	if n == 0 {
		return reject(kind, ErrTargetNotFound)
	}
	return nil
}

func lookup(kind Kind) (kindInfo, error) {
	info, ok := kinds[kind]
	if !ok {
		return kindInfo{}, fmt.Errorf("unknown relation kind %d", int(kind))
	}
	return info, nil
}
