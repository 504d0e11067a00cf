// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Commands that own their flag set register the flags and resolve later:

	flags := cliparse.AddFlags(cmd.Flags())
	cfg, err := flags.Resolve()

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - MediaDir: Directory for uploaded recipe images (default: media)
  - MediaURL: URL prefix for uploaded images (default: /media/)
  - PageSize: Default page size for list endpoints (default: 6)
  - LogLevel: slog level name (default: info)

# Sources

Values are merged in this order, later sources winning:

	defaults → YAML file (--config) → environment → CLI flags

The environment is read after loading the dotenv file named by --env-file
(default .env, silently skipped when absent). Existing environment
variables are never overwritten by the dotenv file.

# Environment Variables

	PORT          → -p, --port
	DATABASE_URL  → -d, --database-url
	DATABASE_TYPE → -t, --database-type
	MEDIA_DIR     → --media-dir
	MEDIA_URL     → --media-url
	PAGE_SIZE     → --page-size
	LOG_LEVEL     → --log-level
*/
package cliparse
