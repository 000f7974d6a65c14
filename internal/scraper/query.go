package scraper

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/jimezsa/internhunt/internal/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slug lowercases value, folds accents and joins the remaining words with
// sep. Punctuation is dropped.
func slug(value string, sep string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), value)
	if err != nil {
		folded = value
	}
	words := strings.FieldsFunc(strings.ToLower(folded), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
	})
	return strings.Join(words, sep)
}

// skillSlugs returns each skill as its own slug, in input order.
func skillSlugs(params models.SearchParams, sep string) []string {
	skills := params.SkillList()
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if s := slug(skill, sep); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// plusJoin escapes each part for a query string and joins them with '+'.
func plusJoin(parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		escaped = append(escaped, url.QueryEscape(part))
	}
	return strings.Join(escaped, "+")
}
