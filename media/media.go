// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// ErrInvalidImage is returned for payloads that are not a base64 data URI
// holding a supported image
var ErrInvalidImage = errors.New("invalid image: expected a base64 data URI with a png, jpeg, gif or webp image")

// MaxImageSize caps decoded uploads
const MaxImageSize = 10 << 20

// Subdir holds recipe images, relative to the media root
const Subdir = "recipes"

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Store writes recipe images below a root directory
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root is the directory served under the media URL
func (s *Store) Root() string {
	return s.root
}

// Save decodes a "data:image/<type>;base64,<payload>" URI, writes it under
// a fresh name and returns the path relative to the root.
func (s *Store) Save(data string) (string, error) {
	header, payload, ok := strings.Cut(data, ",")
	if !ok {
		return "", ErrInvalidImage
	}
	mediaType, ok := strings.CutPrefix(header, "data:")
	if !ok {
		return "", ErrInvalidImage
	}
	mediaType, ok = strings.CutSuffix(mediaType, ";base64")
	if !ok {
		return "", ErrInvalidImage
	}
	ext, ok := extensions[strings.ToLower(mediaType)]
	if !ok {
		return "", ErrInvalidImage
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize {
		return "", fmt.Errorf("%w: larger than %s", ErrInvalidImage, humanize.IBytes(MaxImageSize))
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidImage
	}
	if _, ok := extensions[http.DetectContentType(raw)]; !ok {
		return "", ErrInvalidImage
	}

	rel := path.Join(Subdir, uuid.NewString()+"."+ext)
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(full, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	slog.Info("image stored", "path", rel, "size", humanize.Bytes(uint64(len(raw))))
	return rel, nil
}

// Remove deletes a stored image. Missing files are not an error.
func (s *Store) Remove(rel string) error {
	clean := path.Clean("/" + rel)[1:]
	if clean == "" || !strings.HasPrefix(clean, Subdir+"/") {
		return fmt.Errorf("refusing to remove %q outside %s", rel, Subdir)
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}
