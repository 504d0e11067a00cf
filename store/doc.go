// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store reads and writes users, tokens, reference data, recipes and
subscriptions.

	s := store.New(conn, cfg.MediaURL)
	recipe, err := s.GetRecipe(ctx, recipeID, viewerID)

A viewerID of 0 stands for an anonymous request. Flags that depend on the
viewer (is_subscribed, is_favorited, is_in_shopping_cart) are EXISTS
subqueries evaluated per request; nothing is cached or denormalized.

# Recipes

GetRecipe and ListRecipes return fully materialized recipes: author
profile, tags ordered by name, ingredient lines in insertion order. Tags
and ingredient lines for a page are fetched with one query each.

ListRecipes takes a RecipeFilter:

  - TagSlugs: recipes carrying any of the tags
  - AuthorID: recipes by one author
  - Favorited, InShoppingCart: recipes in the viewer's favorites or cart

Recipe writes live in package recipes.

# Reference data

Tags and ingredients are read-only to API clients. InsertTags and
InsertIngredients load them in bulk, skipping rows already present.

# Errors

Missing rows are reported as ErrNotFound. CreateUser reports
ErrEmailTaken or ErrUsernameTaken.
*/
package store
