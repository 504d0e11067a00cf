// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the Entity Store plumbing: connection, schema, transactions
and driver error classification.

# Connecting

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

Open accepts "postgres" (lib/pq) or "sqlite" (modernc.org/sqlite) and keeps
pinging with exponential backoff until the database answers or
ConnectTimeout passes. SQLite connections get foreign keys switched on and
are limited to a single open connection.

# Schema

	err := db.CreateSchema(ctx, conn)

Tables:

  - app_user, auth_token: accounts and API tokens
  - tag, ingredient: reference data
  - recipe, recipe_tag, recipe_ingredient: recipes and their composition
  - favorite, shopping_cart, subscription: user relations

Uniqueness (favorites, cart entries, subscriptions, one line per ingredient
per recipe) and positivity (amount, cooking_time) are enforced by the
database itself. Deleting a user or recipe cascades.

# Queries

Raw SQL is written with ? placeholders and passed through sqlx Rebind.
Builder returns a squirrel statement builder with the right placeholder
format for the connection.

# Transactions

	err := db.WithTx(ctx, conn, func(tx *sqlx.Tx) error { ... })

# Errors

IsUniqueViolation, IsForeignKeyViolation and IsCheckViolation recognise
constraint failures from either driver.
*/
package db
