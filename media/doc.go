// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package media stores recipe images uploaded as base64 data URIs.

	store := media.NewStore(cfg.MediaDir)
	rel, err := store.Save("data:image/png;base64,iVBORw0KGgo...")

Images land in <root>/recipes/<uuid>.<ext>. The returned path is relative
to the root and is what the recipe row stores; the router serves the root
under the configured media URL.
*/
package media
