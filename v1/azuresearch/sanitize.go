package azuresearch

import (
	"regexp"
	"strings"
)

const (
	maxIndexNameLength = 128
	defaultIndexName   = "default-index"
)

var (
	invalidIndexChars = regexp.MustCompile(`[^a-z0-9-]`)
	repeatedDashes    = regexp.MustCompile(`-+`)
)

// SanitizeIndexName maps a collection name onto the index naming rules:
// lowercase letters, digits and dashes, no leading or trailing dash, starting
// with a letter, at most 128 characters.
func SanitizeIndexName(name string) string {
	s := invalidIndexChars.ReplaceAllString(strings.ToLower(name), "-")
	s = repeatedDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "idx-" + s
	}
	if len(s) > maxIndexNameLength {
		s = strings.TrimRight(s[:maxIndexNameLength], "-")
	}
	if s == "" {
		return defaultIndexName
	}
	return s
}
