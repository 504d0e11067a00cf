// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response and domain types for the API.

# Request Types

	CreateUserRequest  - POST /api/users
	LoginRequest       - POST /api/auth/token/login
	SetPasswordRequest - POST /api/users/set_password
	RecipeRequest      - POST /api/recipes, PATCH /api/recipes/{id}

RecipeRequest uses pointer fields for scalars so PATCH can tell an omitted
field from a zero value. Tags and ingredients are always required.

Ingredient amounts decode from a JSON number or a numeric string:

	{"id": 7, "amount": 2.5}
	{"id": 7, "amount": "2.5"}

# Domain Types

  - User: account row; the password hash is never serialized
  - UserProfile: public view of a user with is_subscribed for the viewer
  - Tag, Ingredient: reference data
  - Recipe: fully materialized recipe with tags, author and ingredient lines
  - RecipeShort: id, name, image and cooking time
  - Subscription: followed author plus recipe preview and count

is_favorited, is_in_shopping_cart and is_subscribed are derived per request
from membership lookups; nothing stores them.

# Pagination

List endpoints return Page[T]:

	{"count": 12, "next": "...?page=3", "previous": "...?page=1", "results": [...]}

# Error Responses

Generic failures use ErrorResponse. Validation failures are a map from field
name to messages. Rejected relation toggles return DetailResponse.
*/
package models
