package goquery

import (
	"strings"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/PuerkitoBio/goquery"
)

// Parse parses an HTML document. The HTML5 parser recovers from nearly any
// input, so an error here means the reader itself failed.
func Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, cleanplate.Errorf(cleanplate.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// MetaContent returns the content of the first meta tag matching one of the
// keys. Keys are tried in order and compared case-insensitively against the
// name, property and itemprop attributes.
func MetaContent(doc *goquery.Document, keys ...string) string {
	for _, key := range keys {
		if values := MetaContents(doc, key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// MetaContents returns the cleaned, non-empty content of every meta tag
// matching key, in document order.
func MetaContents(doc *goquery.Document, key string) []string {
	var values []string
	doc.Find("meta[content]").Each(func(_ int, s *goquery.Selection) {
		if !metaMatches(s, key) {
			return
		}
		if v := cleanplate.CleanText(s.AttrOr("content", "")); v != "" {
			values = append(values, v)
		}
	})
	return values
}

func metaMatches(s *goquery.Selection, key string) bool {
	for _, attr := range []string{"property", "name", "itemprop"} {
		if v, ok := s.Attr(attr); ok && strings.EqualFold(strings.TrimSpace(v), key) {
			return true
		}
	}
	return false
}

// SiteName returns og:site_name, or the page host without "www.".
func SiteName(doc *goquery.Document, pageURL string) string {
	if name := MetaContent(doc, "og:site_name", "application-name"); name != "" {
		return name
	}
	return cleanplate.SiteNameFromURL(pageURL)
}

// hintMatches reports whether the class or id of s contains one of the
// hints, case-insensitively.
func hintMatches(s *goquery.Selection, hints ...string) bool {
	attrs := strings.ToLower(s.AttrOr("class", "") + " " + s.AttrOr("id", ""))
	for _, h := range hints {
		if strings.Contains(attrs, h) {
			return true
		}
	}
	return false
}
