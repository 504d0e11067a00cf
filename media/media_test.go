// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package media

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Smallest valid PNG header is enough for content sniffing
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func dataURI(mediaType string, raw []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

func TestSave(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	rel, err := s.Save(dataURI("image/png", pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "recipes/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))

	got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, got)

	other, err := s.Save(dataURI("image/png", pngBytes))
	require.NoError(t, err)
	assert.NotEqual(t, rel, other, "every upload gets a fresh name")
}

func TestSaveRejects(t *testing.T) {
	s := NewStore(t.TempDir())

	tests := []struct {
		name string
		data string
	}{
		{"no comma", "data:image/png;base64"},
		{"not a data URI", "image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)},
		{"not base64 encoded", "data:image/png," + string(pngBytes)},
		{"unsupported type", dataURI("image/tiff", pngBytes)},
		{"bad base64", "data:image/png;base64,@@@"},
		{"content is not an image", dataURI("image/png", []byte("hello world"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Save(tt.data)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	rel, err := s.Save(dataURI("image/png", pngBytes))
	require.NoError(t, err)

	require.NoError(t, s.Remove(rel))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(rel), "removing twice is fine")
	assert.Error(t, s.Remove("../etc/passwd"))
	assert.Error(t, s.Remove("recipes/../../x"))
}
