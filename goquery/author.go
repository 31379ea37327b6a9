package goquery

import (
	"regexp"
	"strings"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Ensure AuthorFinder implements cleanplate.AuthorFinder.
var _ cleanplate.AuthorFinder = (*AuthorFinder)(nil)

// authorMetaKeys are tried before any DOM pattern.
var authorMetaKeys = []string{"author", "article:author", "parsely-author", "sailthru.author", "dc.creator"}

// authorSelectors are the byline patterns common on recipe sites, most
// specific first.
var authorSelectors = []cascadia.Selector{
	cascadia.MustCompile(`[itemprop="author"] [itemprop="name"]`),
	cascadia.MustCompile(`[rel="author"]`),
	cascadia.MustCompile(`[itemprop="author"]`),
	cascadia.MustCompile(`.recipe-author, .wprm-recipe-author, .tasty-recipes-author-name`),
	cascadia.MustCompile(`.author-name, .byline-name, .entry-author-name`),
	cascadia.MustCompile(`.byline, .author`),
}

var byPrefixRe = regexp.MustCompile(`(?i)^(written\s+)?by[:\s]+`)

const maxAuthorLen = 100

// AuthorFinder locates a credited author from meta tags and byline markup.
type AuthorFinder struct{}

// NewAuthorFinder creates a new AuthorFinder.
func NewAuthorFinder() *AuthorFinder {
	return &AuthorFinder{}
}

// FindAuthor returns the author named by the page, or "".
func (f *AuthorFinder) FindAuthor(html string) string {
	doc, err := Parse(html)
	if err != nil {
		return ""
	}
	return findAuthor(doc)
}

func findAuthor(doc *goquery.Document) string {
	for _, key := range authorMetaKeys {
		for _, v := range MetaContents(doc, key) {
			if name := cleanAuthor(v); name != "" {
				return name
			}
		}
	}

	for _, sel := range authorSelectors {
		var name string
		doc.FindMatcher(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			name = cleanAuthor(s.AttrOr("content", nodeText(s)))
			return name == ""
		})
		if name != "" {
			return name
		}
	}
	return ""
}

// cleanAuthor strips a leading "By" and rejects values that are URLs or too
// long to be a name.
func cleanAuthor(s string) string {
	s = byPrefixRe.ReplaceAllString(cleanplate.CleanText(s), "")
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if s == "" || runeCount(s) > maxAuthorLen ||
		strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ""
	}
	return s
}

func runeCount(s string) int {
	return len([]rune(s))
}
