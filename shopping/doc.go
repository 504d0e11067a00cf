// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package shopping builds a user's consolidated shopping list from the
// recipes in their cart and renders it as a CSV download.
package shopping
