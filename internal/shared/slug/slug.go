// Package slug derives URL-safe identifiers from titles and names and makes
// them unique against a caller supplied existence check.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxAttempts bounds the suffix search in MakeUnique.
const MaxAttempts = 1000

// fallback is used when the source text has no sluggable characters at all.
const fallback = "item"

var ErrExhausted = errors.New("slug: no free suffix found")

var (
	// anything that is not a letter, mark, digit, whitespace or separator is dropped
	invalidChars = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\s_-]+`)
	separators   = regexp.MustCompile(`[\s_-]+`)
)

// letters that NFD decomposition does not reduce to ASCII
var foldings = map[rune]string{
	'đ': "d", 'Đ': "D",
	'ø': "o", 'Ø': "O",
	'ł': "l", 'Ł': "L",
	'ß': "ss",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
	'þ': "th", 'Þ': "TH",
}

// ExistsFunc reports whether slug is taken by a live record other than excludeID.
type ExistsFunc func(ctx context.Context, slug string, excludeID *int64) (bool, error)

// Generate converts text into a lower-case, hyphen separated slug. Latin
// letters lose their accents; other scripts are kept as written.
//
//	"Nguyễn Nhật Ánh" -> "nguyen-nhat-anh"
//	"Dune: Messiah!"  -> "dune-messiah"
//	"পথের পাঁচালী"     -> "পথের-পাঁচালী"
func Generate(text string) string {
	ascii := RemoveDiacritics(text)
	lower := strings.ToLower(ascii)
	cleaned := invalidChars.ReplaceAllString(lower, "")
	hyphenated := separators.ReplaceAllString(cleaned, "-")
	return strings.Trim(hyphenated, "-")
}

// RemoveDiacritics strips combining marks from Latin letters ("á" -> "a") and
// folds the few Latin letters that have no decomposition. Marks on other
// scripts carry vowels and viramas, so they stay.
func RemoveDiacritics(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if repl, ok := foldings[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}

	decomposed := norm.NFD.String(b.String())
	b.Reset()
	b.Grow(len(decomposed))

	latinBase := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			if !latinBase {
				b.WriteRune(r)
			}
			continue
		}
		latinBase = unicode.Is(unicode.Latin, r)
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// MakeUnique returns Generate(text) when it is free, otherwise the first free
// candidate among base-1, base-2, ...
func MakeUnique(ctx context.Context, text string, exists ExistsFunc, excludeID *int64) (string, error) {
	base := Generate(text)
	if base == "" {
		base = fallback
	}

	taken, err := exists(ctx, base, excludeID)
	if err != nil {
		return "", fmt.Errorf("check slug %q: %w", base, err)
	}
	if !taken {
		return base, nil
	}

	for i := 1; i <= MaxAttempts; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w for %q after %d attempts", ErrExhausted, base, MaxAttempts)
}
