// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/danielhkuo/foodgram/models"
)

// RecipeFilter narrows recipe listings. Zero values mean "no filter".
// Favorited and InShoppingCart are relative to the viewer.
type RecipeFilter struct {
	TagSlugs       []string
	AuthorID       int64
	Favorited      bool
	InShoppingCart bool
}

type recipeRow struct {
	ID                 int64  `db:"id"`
	Name               string `db:"name"`
	Text               string `db:"text"`
	Image              string `db:"image"`
	CookingTime        int    `db:"cooking_time"`
	AuthorID           int64  `db:"author_id"`
	AuthorEmail        string `db:"author_email"`
	AuthorUsername     string `db:"author_username"`
	AuthorFirstName    string `db:"author_first_name"`
	AuthorLastName     string `db:"author_last_name"`
	AuthorIsSubscribed bool   `db:"author_is_subscribed"`
	IsFavorited        bool   `db:"is_favorited"`
	IsInShoppingCart   bool   `db:"is_in_shopping_cart"`
}

type recipeTagRow struct {
	RecipeID int64 `db:"recipe_id"`
	models.Tag
}

type recipeIngredientRow struct {
	RecipeID int64 `db:"recipe_id"`
	models.RecipeIngredient
}

func (s *Store) recipeSelect(viewerID int64) sq.SelectBuilder {
	return s.sb.Select(
		"r.id", "r.name", "r.text", "r.image", "r.cooking_time",
		"u.id AS author_id",
		"u.email AS author_email",
		"u.username AS author_username",
		"u.first_name AS author_first_name",
		"u.last_name AS author_last_name",
	).
		Column(sq.Expr("EXISTS (SELECT 1 FROM subscription s WHERE s.user_id = ? AND s.author_id = u.id) AS author_is_subscribed", viewerID)).
		Column(sq.Expr("EXISTS (SELECT 1 FROM favorite f WHERE f.user_id = ? AND f.recipe_id = r.id) AS is_favorited", viewerID)).
		Column(sq.Expr("EXISTS (SELECT 1 FROM shopping_cart c WHERE c.user_id = ? AND c.recipe_id = r.id) AS is_in_shopping_cart", viewerID)).
		From("recipe r").
		Join("app_user u ON u.id = r.author_id")
}

func (f RecipeFilter) apply(b sq.SelectBuilder, viewerID int64) (sq.SelectBuilder, error) {
	if len(f.TagSlugs) > 0 {
		sub, args, err := sq.Select("rt.recipe_id").
			From("recipe_tag rt").
			Join("tag t ON t.id = rt.tag_id").
			Where(sq.Eq{"t.slug": f.TagSlugs}).
			ToSql()
		if err != nil {
			return b, fmt.Errorf("failed to build tag filter: %w", err)
		}
		b = b.Where("r.id IN ("+sub+")", args...)
	}
	if f.AuthorID != 0 {
		b = b.Where(sq.Eq{"r.author_id": f.AuthorID})
	}
	if f.Favorited {
		b = b.Where("EXISTS (SELECT 1 FROM favorite ff WHERE ff.user_id = ? AND ff.recipe_id = r.id)", viewerID)
	}
	if f.InShoppingCart {
		b = b.Where("EXISTS (SELECT 1 FROM shopping_cart cc WHERE cc.user_id = ? AND cc.recipe_id = r.id)", viewerID)
	}
	return b, nil
}

// GetRecipe materializes one recipe as seen by viewerID (0 for anonymous)
func (s *Store) GetRecipe(ctx context.Context, id, viewerID int64) (*models.Recipe, error) {
	var rows []recipeRow
	if err := s.selectAll(ctx, &rows, s.recipeSelect(viewerID).Where(sq.Eq{"r.id": id})); err != nil {
		return nil, fmt.Errorf("failed to query recipe: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	recipes, err := s.materialize(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// ListRecipes returns one page of recipes, newest first, and the total
// number matching the filter.
func (s *Store) ListRecipes(ctx context.Context, f RecipeFilter, viewerID int64, limit, offset int) ([]models.Recipe, int, error) {
	countQ, err := f.apply(s.sb.Select("COUNT(*)").From("recipe r"), viewerID)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := s.get(ctx, &total, countQ); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	listQ, err := f.apply(s.recipeSelect(viewerID), viewerID)
	if err != nil {
		return nil, 0, err
	}
	var rows []recipeRow
	err = s.selectAll(ctx, &rows, listQ.OrderBy("r.id DESC").Limit(uint64(limit)).Offset(uint64(offset)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes, err := s.materialize(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// GetRecipeShort returns the compact form of a recipe
func (s *Store) GetRecipeShort(ctx context.Context, id int64) (*models.RecipeShort, error) {
	var shorts []models.RecipeShort
	err := s.selectAll(ctx, &shorts, s.sb.Select("id", "name", "image", "cooking_time").From("recipe").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe: %w", err)
	}
	if len(shorts) == 0 {
		return nil, ErrNotFound
	}
	shorts[0].Image = s.imageURL(shorts[0].Image)
	return &shorts[0], nil
}

// materialize attaches tags and ingredient lines to recipe rows with one
// query each, preserving row order.
func (s *Store) materialize(ctx context.Context, rows []recipeRow) ([]models.Recipe, error) {
	recipes := make([]models.Recipe, len(rows))
	if len(rows) == 0 {
		return recipes, nil
	}

	ids := make([]int64, len(rows))
	index := make(map[int64]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
		index[row.ID] = i
		recipes[i] = models.Recipe{
			ID:   row.ID,
			Tags: []models.Tag{},
			Author: models.UserProfile{
				ID:           row.AuthorID,
				Email:        row.AuthorEmail,
				Username:     row.AuthorUsername,
				FirstName:    row.AuthorFirstName,
				LastName:     row.AuthorLastName,
				IsSubscribed: row.AuthorIsSubscribed,
			},
			Ingredients:      []models.RecipeIngredient{},
			IsFavorited:      row.IsFavorited,
			IsInShoppingCart: row.IsInShoppingCart,
			Name:             row.Name,
			Image:            s.imageURL(row.Image),
			Text:             row.Text,
			CookingTime:      row.CookingTime,
		}
	}

	var tags []recipeTagRow
	err := s.selectAll(ctx, &tags, s.sb.Select("rt.recipe_id", "t.id", "t.name", "t.color", "t.slug").
		From("recipe_tag rt").
		Join("tag t ON t.id = rt.tag_id").
		Where(sq.Eq{"rt.recipe_id": ids}).
		OrderBy("t.name"))
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe tags: %w", err)
	}
	for _, t := range tags {
		i := index[t.RecipeID]
		recipes[i].Tags = append(recipes[i].Tags, t.Tag)
	}

	var lines []recipeIngredientRow
	err = s.selectAll(ctx, &lines, s.sb.Select("ri.recipe_id", "i.id", "i.name", "i.measurement_unit", "ri.amount").
		From("recipe_ingredient ri").
		Join("ingredient i ON i.id = ri.ingredient_id").
		Where(sq.Eq{"ri.recipe_id": ids}).
		OrderBy("ri.id"))
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe ingredients: %w", err)
	}
	for _, l := range lines {
		i := index[l.RecipeID]
		recipes[i].Ingredients = append(recipes[i].Ingredients, l.RecipeIngredient)
	}

	return recipes, nil
}
