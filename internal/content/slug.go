package content

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns a value into a lowercase URL path segment: accents are
// stripped, runs of anything other than letters and digits become a single
// hyphen. Values with no letters or digits at all ("++") map to a stable
// hash-based token so that distinct values never produce an empty segment.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	if b.Len() == 0 {
		if s == "" {
			return ""
		}
		return SlugToken(s)
	}
	return b.String()
}

// SlugToken returns a short token derived from the raw bytes of s. It
// tells apart values whose slugs are equal ("C", "C++", "c#").
func SlugToken(s string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("x%08x", h.Sum32())
}
