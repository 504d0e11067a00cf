// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the foodgram API.

# Handler Types

Each handler is a struct holding the store and the domain services it needs:

  - UserHandler: Registration, profiles, password change, token login/logout
  - ReferenceHandler: Read-only tags and ingredients
  - RecipeHandler: Recipe CRUD, favorites, shopping cart and its CSV export
  - SubscriptionHandler: Following authors

Handlers are created via constructor functions:

	recipeHandler := handlers.NewRecipeHandler(s, service, guard, aggregator, cfg)

# Authentication

Handlers read the caller from the request context (middleware.UserID).
Zero means anonymous. Routes that need a user are wrapped in
middleware.RequireUser by the router.

# Errors

Domain errors are translated in one place, writeError:

	*recipes.ValidationError  → 400 {"<field>": ["message"]}
	recipes.ErrAuthorMismatch → 403
	recipes.ErrRecipeNotFound → 404
	*relations.Error          → 400 {"errors": "message"}, or 404 for a missing target

Anything else is logged and reported as a 500.

# Pagination

List endpoints accept page and limit and answer with models.Page:
count, absolute next/previous links and the results.
*/
package handlers
