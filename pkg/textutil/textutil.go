// Package textutil holds the text normalisation shared by the importer and
// the search engine: markup stripping for excerpts and case folding for tags
// and free text.
package textutil

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stripper removes all markup from rich text.
// A bluemonday policy is safe for concurrent use once built.
type Stripper struct {
	policy *bluemonday.Policy
}

// NewStripper returns a Stripper that keeps text content only
func NewStripper() *Stripper {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return &Stripper{policy: p}
}

// Strip returns body with tags removed, entities decoded and whitespace collapsed
func (s *Stripper) Strip(body string) string {
	if body == "" {
		return ""
	}
	text := html.UnescapeString(s.policy.Sanitize(body))
	return strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
}

// Excerpt strips body and truncates it to at most maxRunes runes,
// cutting at the last word boundary and appending an ellipsis when shortened.
func (s *Stripper) Excerpt(body string, maxRunes int) string {
	text := s.Strip(body)
	if maxRunes <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	cut := runes[:maxRunes]
	if i := lastSpace(cut); i > maxRunes/2 {
		cut = cut[:i]
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + "…"
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if unicode.IsSpace(rs[i]) {
			return i
		}
	}
	return -1
}

// NormalizeTag trims and case-folds a tag so lookups are case-insensitive
// for non-ASCII text as well.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	return Fold(tag)
}

// Fold lower-cases s with Unicode rules so stored text and search terms
// compare without regard to case. A new Caser is used per call; Casers
// are not safe for concurrent use.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Lower(language.Und).String(s)
}

// NormalizeTags normalises, de-duplicates and drops empty tags, keeping
// first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
