// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cmd holds the foodgram command line: serve, migrate and seed.
package cmd
