// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the foodgram API server.

foodgram is a recipe sharing service: users publish recipes composed of
shared tags and ingredients, follow other authors, keep favorites and a
shopping cart, and download the cart as one merged shopping list.

# Commands

	foodgram serve    Run the HTTP API
	foodgram migrate  Create the database schema
	foodgram seed     Load reference ingredients (CSV) and tags (YAML)

# Starting the Server

Configuration comes from flags, environment variables, an optional YAML
file and a .env file:

	DATABASE_URL=foodgram.db go run . serve

Or with flags:

	go run . serve -p 3318 -t postgres -d "postgres://..."

# Configuration

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string (required)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - PORT (-p): Server port (default: 3318)
  - MEDIA_DIR (--media-dir): Directory for uploaded images (default: media)
  - MEDIA_URL (--media-url): URL prefix for images (default: /media/)
  - PAGE_SIZE (--page-size): Default list page size (default: 6)
  - LOG_LEVEL (--log-level): debug, info, warn or error (default: info)

# Architecture

  - cmd: Cobra commands and server lifecycle
  - router: Route definitions using chi
  - handlers: HTTP request handlers (users, reference data, recipes, subscriptions)
  - middleware: Token authentication, CORS, logging, JSON helpers
  - recipes: Recipe validation, transactional writes and the create/update service
  - relations: Favorite, shopping cart and subscription toggles
  - shopping: Shopping list aggregation and CSV export
  - store: Read queries and user/token persistence
  - media: Image upload storage
  - seed: Reference data loading
  - db: Connection, dialects, schema and constraint errors
  - auth: Token generation and password hashing
  - models: Request/response types
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
