package common

import (
	"path/filepath"
	"strings"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}

// IsImageFormat tells by the extension (case-insensitive) whether the path or URL points to an image we can decode.
// Query strings are ignored for URLs ("cat.png?size=2" is an image).
func IsImageFormat(pathOrURL string) bool {
	if index := strings.IndexAny(pathOrURL, "?#"); index != -1 {
		pathOrURL = pathOrURL[:index]
	}
	return IsStringInSlice(strings.ToLower(filepath.Ext(pathOrURL)), imageExtensions)
}
