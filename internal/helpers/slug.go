package helpers

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)

	// SlugPattern matches a well-formed slug as produced by Slugify.
	SlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify derives a lowercase kebab-case slug from title. It is idempotent:
// Slugify(Slugify(t)) == Slugify(t).
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func IsValidSlug(slug string) bool {
	return SlugPattern.MatchString(slug)
}
