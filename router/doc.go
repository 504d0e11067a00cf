// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the foodgram API.

# Route Registration

NewRouter wires the store, recipe service, relation guard and shopping
aggregator into handlers and returns a chi router:

	handler := router.NewRouter(conn, cfg)

Every request gets a request id, is logged, recovers from panics, has a
trailing slash stripped and carries CORS headers. Routes under /api also
pass through token authentication.

# Endpoints

Health and media:

	GET /
	GET /health
	GET /media/*                 - Uploaded recipe images (cfg.MediaURL)

Accounts (token auth: "Authorization: Token <key>"):

	POST /api/users                   - Register
	GET  /api/users                   - List users
	GET  /api/users/{id}              - User profile
	GET  /api/users/me                - Current user *
	POST /api/users/set_password      - Change password *
	POST /api/auth/token/login        - Obtain token
	POST /api/auth/token/logout       - Revoke token *

Subscriptions:

	GET    /api/users/subscriptions   - Followed authors *
	POST   /api/users/{id}/subscribe  - Follow *
	DELETE /api/users/{id}/subscribe  - Unfollow *

Reference data:

	GET /api/tags, /api/tags/{id}
	GET /api/ingredients?name=<prefix>, /api/ingredients/{id}

Recipes:

	GET    /api/recipes               - List (tags, author, is_favorited, is_in_shopping_cart)
	POST   /api/recipes               - Create *
	GET    /api/recipes/{id}          - Detail
	PATCH  /api/recipes/{id}          - Update, author only *
	DELETE /api/recipes/{id}          - Delete, author only *
	POST   /api/recipes/{id}/favorite       - Add favorite *
	DELETE /api/recipes/{id}/favorite       - Remove favorite *
	POST   /api/recipes/{id}/shopping_cart  - Add to cart *
	DELETE /api/recipes/{id}/shopping_cart  - Remove from cart *
	GET    /api/recipes/download_shopping_cart - Shopping list CSV *

Routes marked * require an authenticated user.
*/
package router
