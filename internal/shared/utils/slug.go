package utils

import (
	"regexp"
)

// MaxSlugLength bounds how long a memorial slug may be.
const MaxSlugLength = 64

// SlugPattern matches the allowed slug shape: lowercase ASCII letters and
// digits, single hyphens between runs, no leading or trailing hyphen.
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidSlug reports whether s is an acceptable memorial slug. Slugs are
// normalized client-side; the server only validates shape, it never rewrites.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > MaxSlugLength {
		return false
	}
	return SlugPattern.MatchString(s)
}
