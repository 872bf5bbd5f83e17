package main

import "regexp"

// Recognized bilibili link shapes: the canonical video path and the
// b23.tv short link. Anchored so partial matches inside a longer string
// are rejected.
var bilibiliURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://www\.bilibili\.com/video/[a-zA-Z0-9_?=/-]+$`),
	regexp.MustCompile(`^https?://b23\.tv/[a-zA-Z0-9]+$`),
}

// isValidBilibiliURL reports whether the string, in its entirety, is a
// recognized bilibili video link.
func isValidBilibiliURL(url string) bool {
	for _, pattern := range bilibiliURLPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}
