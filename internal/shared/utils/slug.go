package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugFallback is used when a name contains no usable characters
const SlugFallback = "celebrity"

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Letters NFD does not decompose into base + mark
var foldExceptions = strings.NewReplacer(
	"đ", "d", "Đ", "D",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
)

// GenerateSlug turns a display name into a URL-safe base slug:
// "Nguyễn Nhật Ánh" -> "nguyen-nhat-anh", "  !!  " -> "celebrity"
func GenerateSlug(input string) string {
	lower := strings.ToLower(RemoveDiacritics(input))
	slug := strings.Trim(nonSlugChars.ReplaceAllString(lower, "-"), "-")
	if slug == "" {
		return SlugFallback
	}
	return slug
}

// RemoveDiacritics folds accented letters to ASCII ("Beyoncé" -> "Beyonce")
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, foldExceptions.Replace(input))
	if err != nil {
		return input
	}
	return out
}
