package helpers

import (
	"regexp"
	"strconv"
	"strings"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a url-safe slug, e.g. "Jazz Night 2026"
// becomes "jazz-night-2026".
func Slugify(title string) string {
	slug := slugInvalidChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
