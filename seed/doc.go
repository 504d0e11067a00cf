// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package seed loads tag and ingredient reference data.

Ingredients come from a semicolon-delimited file, one "name;unit" per line:

	абрикосовое варенье;г
	ананас;шт

Tags come from YAML:

	tags:
	  - name: Breakfast
	    color: "#E26C2D"
	    slug: breakfast

Both files are parsed before anything is written. Rows that already exist
are skipped, so a seed can be re-run safely.
*/
package seed
