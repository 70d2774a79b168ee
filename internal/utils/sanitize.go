package utils

import (
	"path/filepath"
	"strings"
)

// CleanFilename turns "some_fallback-track.ogg" into "some fallback track"
// for display when a file carries no usable tags.
func CleanFilename(filename string) string {
	ext := filepath.Ext(filename)
	clean := strings.TrimSuffix(filename, ext)
	clean = strings.ReplaceAll(clean, "_", " ")
	clean = strings.ReplaceAll(clean, "-", " ")
	return clean
}
