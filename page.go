package cleanplate

import (
	"net/url"
	"strings"

	"github.com/araddon/dateparse"
)

// SiteNameFromURL derives a site name from the page host, without "www.".
func SiteNameFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// NormalizeDate returns the cleaned date string if it parses as a date,
// or "" otherwise. The original spelling is kept.
func NormalizeDate(s string) string {
	s = CleanText(s)
	if s == "" {
		return ""
	}
	if _, err := dateparse.ParseAny(s); err != nil {
		return ""
	}
	return s
}
