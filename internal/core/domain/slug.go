package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
	folderSplit    = regexp.MustCompile(`[^a-z0-9]+`)
)

// foldAccents decomposes s and drops combining marks so "é" becomes "e".
// Characters without a decomposition (ß, æ, ø) are left for the caller to strip.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify derives the public, hyphen-separated identifier of a title.
// Accents are folded first, then anything outside [a-z0-9], whitespace and
// hyphens is dropped. Slugify is idempotent.
func Slugify(title string) string {
	s := strings.ToLower(foldAccents(title))
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FolderName derives the on-disk asset folder of a title. It intentionally
// uses underscores, so it differs from the slug of the same title.
func FolderName(title string) string {
	s := strings.ToLower(foldAccents(title))
	s = folderSplit.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// NormalizeTags splits a comma-separated list, trims and lowercases each
// entry, and drops empty entries and repeats.
func NormalizeTags(raw string) []string {
	tags := make([]string, 0)
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
