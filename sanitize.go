package main

import (
	"regexp"
	"strings"
)

// Characters that are illegal in filenames on common filesystems.
var illegalFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// sanitizeFilename strips filesystem-illegal characters from a title and
// trims surrounding whitespace. It never fails; callers must fall back
// to a placeholder name when the result is empty.
func sanitizeFilename(title string) string {
	return strings.TrimSpace(illegalFilenameChars.ReplaceAllString(title, ""))
}
