package cleanplate

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strictPolicy strips every tag. Policies are safe for concurrent use.
	strictPolicy = bluemonday.StrictPolicy()
	spaceRe      = regexp.MustCompile(`\s+`)
)

// CleanText decodes HTML entities, strips markup, collapses whitespace and
// trims. Every string stored on a Recipe passes through it.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	if strings.ContainsAny(s, "<>") {
		// Sanitize re-escapes the text it keeps.
		s = html.UnescapeString(strictPolicy.Sanitize(s))
	}
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanList cleans every item and drops the ones that end up empty.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if c := CleanText(item); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Dedupe removes exact duplicates, keeping the first occurrence.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// DedupeFold removes case-insensitive duplicates, keeping the first spelling.
func DedupeFold(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// SplitList splits comma-separated values (as found in keyword fields).
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TitleCase upper-cases the first letter of each word and lower-cases the rest.
func TitleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	start := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && start:
			sb.WriteRune(unicode.ToUpper(r))
			start = false
		case unicode.IsLetter(r):
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
			start = unicode.IsSpace(r) || r == '-' || r == '/'
		}
	}
	return sb.String()
}

// runeLen counts characters rather than bytes.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
