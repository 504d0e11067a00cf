// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, SchemaFor(DialectOf(db)))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SchemaFor renders the DDL for a dialect
func SchemaFor(d Dialect) string {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if d == Postgres {
		pk = "BIGSERIAL PRIMARY KEY"
	}
	return strings.NewReplacer("{{pk}}", pk).Replace(schema)
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id {{pk}},
    email TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL UNIQUE,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    password TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- API tokens
CREATE TABLE IF NOT EXISTS auth_token (
    key TEXT PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_auth_token_user_id ON auth_token(user_id);

-- Reference data
CREATE TABLE IF NOT EXISTS tag (
    id {{pk}},
    name TEXT NOT NULL UNIQUE,
    color TEXT NOT NULL UNIQUE,
    slug TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS ingredient (
    id {{pk}},
    name TEXT NOT NULL,
    measurement_unit TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ingredient_name ON ingredient(name);

-- Recipes
CREATE TABLE IF NOT EXISTS recipe (
    id {{pk}},
    author_id BIGINT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    text TEXT NOT NULL,
    image TEXT NOT NULL DEFAULT '',
    cooking_time INTEGER NOT NULL CHECK (cooking_time >= 1),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_recipe_author_id ON recipe(author_id);

CREATE TABLE IF NOT EXISTS recipe_tag (
    recipe_id BIGINT NOT NULL REFERENCES recipe(id) ON DELETE CASCADE,
    tag_id BIGINT NOT NULL REFERENCES tag(id) ON DELETE CASCADE,
    PRIMARY KEY (recipe_id, tag_id)
);

CREATE INDEX IF NOT EXISTS idx_recipe_tag_tag_id ON recipe_tag(tag_id);

CREATE TABLE IF NOT EXISTS recipe_ingredient (
    id {{pk}},
    recipe_id BIGINT NOT NULL REFERENCES recipe(id) ON DELETE CASCADE,
    ingredient_id BIGINT NOT NULL REFERENCES ingredient(id) ON DELETE CASCADE,
    amount DOUBLE PRECISION NOT NULL CHECK (amount > 0),
    UNIQUE (recipe_id, ingredient_id)
);

CREATE INDEX IF NOT EXISTS idx_recipe_ingredient_ingredient_id ON recipe_ingredient(ingredient_id);

-- User relations
CREATE TABLE IF NOT EXISTS favorite (
    user_id BIGINT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    recipe_id BIGINT NOT NULL REFERENCES recipe(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, recipe_id)
);

CREATE INDEX IF NOT EXISTS idx_favorite_recipe_id ON favorite(recipe_id);

CREATE TABLE IF NOT EXISTS shopping_cart (
    user_id BIGINT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    recipe_id BIGINT NOT NULL REFERENCES recipe(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, recipe_id)
);

CREATE INDEX IF NOT EXISTS idx_shopping_cart_recipe_id ON shopping_cart(recipe_id);

CREATE TABLE IF NOT EXISTS subscription (
    user_id BIGINT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    author_id BIGINT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, author_id),
    CHECK (user_id <> author_id)
);

CREATE INDEX IF NOT EXISTS idx_subscription_author_id ON subscription(author_id);
`
