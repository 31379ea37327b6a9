package jsonld

import (
	"strings"

	"github.com/AdamMoses-GitHub/cleanplate"
)

// staffBylines credit a role rather than a person.
var staffBylines = map[string]struct{}{
	"admin": {}, "administrator": {}, "editor": {}, "editors": {}, "staff": {},
	"editorial staff": {}, "the editors": {}, "test kitchen": {}, "team": {},
	"guest": {}, "contributor": {},
}

// brandNames are recipe publications that often list themselves as author.
var brandNames = map[string]struct{}{
	"allrecipes": {}, "food network": {}, "bon appétit": {}, "bon appetit": {},
	"serious eats": {}, "epicurious": {}, "taste of home": {}, "delish": {},
	"the kitchn": {}, "kitchn": {}, "simply recipes": {}, "bbc good food": {},
	"nyt cooking": {}, "new york times cooking": {}, "tasty": {}, "food & wine": {},
	"eatingwell": {}, "martha stewart": {}, "myrecipes": {}, "budget bytes": {},
	"king arthur baking": {}, "america's test kitchen": {}, "cooking light": {},
	"good housekeeping": {}, "bbc food": {}, "food.com": {}, "yummly": {},
}

func isBrandByline(lower string) bool {
	if _, ok := staffBylines[lower]; ok {
		return true
	}
	if _, ok := brandNames[strings.TrimSuffix(lower, " staff")]; ok {
		return true
	}
	_, ok := brandNames[strings.TrimSuffix(lower, " editors")]
	return ok
}

// authorName resolves the JSON author field. Person names are preferred
// over Organization names; brand bylines and the site's own name are
// skipped. Several people are joined as "A and B" or "A, B, and C".
func authorName(v any, siteName string) string {
	var people, orgs []string
	collectAuthors(v, &people, &orgs)

	names := keepAuthors(people, siteName)
	if len(names) == 0 {
		names = keepAuthors(orgs, siteName)
	}
	return joinNames(names)
}

func collectAuthors(v any, people, orgs *[]string) {
	switch t := v.(type) {
	case string:
		*people = append(*people, t)
	case []any:
		for _, item := range t {
			collectAuthors(item, people, orgs)
		}
	case map[string]any:
		name := text(t["name"])
		if name == "" {
			return
		}
		if hasType(t, "Organization") || hasType(t, "Brand") {
			*orgs = append(*orgs, name)
			return
		}
		*people = append(*people, name)
	}
}

func keepAuthors(names []string, siteName string) []string {
	var kept []string
	for _, n := range names {
		n = cleanplate.CleanText(n)
		lower := strings.ToLower(n)
		if n == "" || strings.EqualFold(n, siteName) {
			continue
		}
		if isBrandByline(lower) {
			continue
		}
		kept = append(kept, n)
	}
	return cleanplate.DedupeFold(kept)
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
}
