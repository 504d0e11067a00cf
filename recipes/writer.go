// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/foodgram/db"
)

// Fields are the scalar columns of a new recipe
type Fields struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
}

// Patch holds the scalar columns supplied on update; nil means unchanged
type Patch struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
}

// Writer persists recipes and replaces their composition. Every method
// runs in a single transaction.
type Writer struct {
	db      *sqlx.DB
	sb      sq.StatementBuilderType
	dialect db.Dialect
}

func NewWriter(conn *sqlx.DB) *Writer {
	return &Writer{db: conn, sb: db.Builder(conn), dialect: db.DialectOf(conn)}
}

// Create inserts the recipe row, its tag links and its ingredient lines
// and returns the new recipe id.
func (w *Writer) Create(ctx context.Context, authorID int64, f Fields, c Composition) (int64, error) {
	var recipeID int64
	err := db.WithTx(ctx, w.db, func(tx *sqlx.Tx) error {
		query, args, err := w.sb.Insert("recipe").
			Columns("author_id", "name", "text", "image", "cooking_time").
			Values(authorID, f.Name, f.Text, f.Image, f.CookingTime).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build recipe insert: %w", err)
		}
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&recipeID); err != nil {
			if db.IsCheckViolation(err) {
				return invalid(FieldCookingTime, ErrNonPositiveCookingTime)
			}
			return fmt.Errorf("failed to insert recipe: %w", err)
		}

		return w.writeComposition(ctx, tx, recipeID, c)
	})
	if err != nil {
		return 0, err
	}
	return recipeID, nil
}

// Update applies the supplied scalar fields and replaces the whole
// composition: every existing tag link and ingredient line is removed
// before the new ones are written.
func (w *Writer) Update(ctx context.Context, recipeID, actorID int64, p Patch, c Composition) error {
	return db.WithTx(ctx, w.db, func(tx *sqlx.Tx) error {
		if err := w.checkAuthor(ctx, tx, recipeID, actorID, true); err != nil {
			return err
		}

		upd := w.sb.Update("recipe").Where(sq.Eq{"id": recipeID})
		changed := false
		if p.Name != nil {
			upd = upd.Set("name", *p.Name)
			changed = true
		}
		if p.Text != nil {
			upd = upd.Set("text", *p.Text)
			changed = true
		}
		if p.Image != nil {
			upd = upd.Set("image", *p.Image)
			changed = true
		}
		if p.CookingTime != nil {
			upd = upd.Set("cooking_time", *p.CookingTime)
			changed = true
		}
		if changed {
			query, args, err := upd.ToSql()
			if err != nil {
				return fmt.Errorf("failed to build recipe update: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				if db.IsCheckViolation(err) {
					return invalid(FieldCookingTime, ErrNonPositiveCookingTime)
				}
				return fmt.Errorf("failed to update recipe: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM recipe_tag WHERE recipe_id = ?`), recipeID); err != nil {
			return fmt.Errorf("failed to clear recipe tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM recipe_ingredient WHERE recipe_id = ?`), recipeID); err != nil {
			return fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}

		return w.writeComposition(ctx, tx, recipeID, c)
	})
}

// Delete removes a recipe; ingredient lines, tag links, favorites and
// cart entries go with it through ON DELETE CASCADE.
func (w *Writer) Delete(ctx context.Context, recipeID, actorID int64) error {
	return db.WithTx(ctx, w.db, func(tx *sqlx.Tx) error {
		if err := w.checkAuthor(ctx, tx, recipeID, actorID, true); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM recipe WHERE id = ?`), recipeID); err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}

// CheckAuthor reports ErrRecipeNotFound or ErrAuthorMismatch without
// taking any lock. Callers use it to reject early; Update and Delete
// check again inside their transaction.
func (w *Writer) CheckAuthor(ctx context.Context, recipeID, actorID int64) error {
	return w.checkAuthor(ctx, w.db, recipeID, actorID, false)
}

func (w *Writer) checkAuthor(ctx context.Context, q sqlx.QueryerContext, recipeID, actorID int64, lock bool) error {
	query := `SELECT author_id FROM recipe WHERE id = ?`
	if lock && w.dialect == db.Postgres {
		query += ` FOR UPDATE`
	}

	var authorID int64
	err := sqlx.GetContext(ctx, q, &authorID, w.db.Rebind(query), recipeID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecipeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load recipe author: %w", err)
	}
	if authorID != actorID {
		return ErrAuthorMismatch
	}
	return nil
}

func (w *Writer) writeComposition(ctx context.Context, tx *sqlx.Tx, recipeID int64, c Composition) error {
	// Re-resolve inside the transaction; an ingredient may have been
	// removed since validation.
	ids := make([]int64, len(c.Ingredients))
	for i, item := range c.Ingredients {
		ids[i] = item.IngredientID
	}
	query, args, err := w.sb.Select("id").From("ingredient").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build ingredient lookup: %w", err)
	}
	var found []int64
	if err := tx.SelectContext(ctx, &found, query, args...); err != nil {
		return fmt.Errorf("failed to resolve ingredients: %w", err)
	}
	present := make(map[int64]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	for _, id := range ids {
		if !present[id] {
			return fmt.Errorf("%w (id %d)", ErrIngredientNotFound, id)
		}
	}

	tags := w.sb.Insert("recipe_tag").Columns("recipe_id", "tag_id")
	for _, tagID := range c.TagIDs {
		tags = tags.Values(recipeID, tagID)
	}
	query, args, err = tags.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build tag insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		switch {
		case db.IsForeignKeyViolation(err):
			return invalid(FieldTags, ErrUnknownTag)
		case db.IsUniqueViolation(err):
			return invalid(FieldTags, ErrDuplicateTag)
		}
		return fmt.Errorf("failed to insert recipe tags: %w", err)
	}

	lines := w.sb.Insert("recipe_ingredient").Columns("recipe_id", "ingredient_id", "amount")
	for _, item := range c.Ingredients {
		lines = lines.Values(recipeID, item.IngredientID, item.Amount)
	}
	query, args, err = lines.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build ingredient insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		switch {
		case db.IsForeignKeyViolation(err):
			return ErrIngredientNotFound
		case db.IsUniqueViolation(err):
			return invalid(FieldIngredients, ErrDuplicateIngredient)
		case db.IsCheckViolation(err):
			return invalid(FieldAmount, ErrNonPositiveAmount)
		}
		return fmt.Errorf("failed to insert recipe ingredients: %w", err)
	}

	return nil
}
