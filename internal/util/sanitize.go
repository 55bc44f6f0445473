package util

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	repeatedUnderscores = regexp.MustCompile(`_{2,}`)
	nonLowerAlnum       = regexp.MustCompile(`[^a-z0-9]`)
	nonLowerAlnumHyphen = regexp.MustCompile(`[^a-z0-9-]`)
	slugUnsafe          = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces          = regexp.MustCompile(`\s+`)
	slugHyphenRuns      = regexp.MustCompile(`-{2,}`)
)

// SanitizeFilename maps an arbitrary name onto the restricted character
// set used on disk (letters, digits, dot, hyphen, underscore), collapsing
// repeated separators.
func SanitizeFilename(name string) (string, error) {
	replaced := unsafeFilenameChars.ReplaceAllString(name, "_")
	cleaned := repeatedUnderscores.ReplaceAllString(replaced, "_")
	if cleaned == "" || strings.Trim(cleaned, "._") == "" {
		return "", apierror.New("INVALID_FILENAME", "filename is empty after sanitization", name, http.StatusBadRequest)
	}

	return cleaned, nil
}

// SanitizeCategoryID lowercases and strips everything outside [a-z0-9].
// The empty result is reported by the caller as InvalidInput.
func SanitizeCategoryID(id string) string {
	return strings.TrimSpace(nonLowerAlnum.ReplaceAllString(strings.ToLower(id), ""))
}

// SanitizeSubcategoryID is the category rule plus hyphens.
func SanitizeSubcategoryID(id string) string {
	return strings.TrimSpace(nonLowerAlnumHyphen.ReplaceAllString(strings.ToLower(id), ""))
}

// Slug derives the URL-safe, immutable post identifier from a title.
func Slug(title string) string {
	lowered := strings.ToLower(title)
	stripped := slugUnsafe.ReplaceAllString(lowered, "")
	hyphenated := slugSpaces.ReplaceAllString(stripped, "-")
	collapsed := slugHyphenRuns.ReplaceAllString(hyphenated, "-")
	return strings.Trim(collapsed, "-")
}
