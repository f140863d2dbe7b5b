package insight

import (
	"strings"
	"unicode"
)

// normalize lowercases s, turns every non-alphanumeric rune into a space,
// collapses runs of spaces and pads both ends with one space. Keywords are
// written in the same form so " ai " only matches the whole word.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// distinctHits counts how many of keywords occur in the normalized text
func distinctHits(norm string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(norm, kw) {
			n++
		}
	}
	return n
}

func containsAny(norm string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// catalogEntry maps a normalized match key to the display name reported
type catalogEntry struct {
	name string
	keys []string
}

// findInOrder returns the display names of catalog entries found in norm,
// ordered by first appearance
func findInOrder(norm string, catalog []catalogEntry) []string {
	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	for _, e := range catalog {
		best := -1
		for _, k := range e.keys {
			if i := strings.Index(norm, k); i >= 0 && (best < 0 || i < best) {
				best = i
			}
		}
		if best >= 0 {
			hits = append(hits, hit{e.name, best})
		}
	}
	// insertion sort keeps catalog order on equal positions
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}
	return out
}
