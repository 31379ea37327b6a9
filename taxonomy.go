package cleanplate

import "strings"

// Caps on taxonomy list sizes.
const (
	MaxCategories = 5
	MaxCuisines   = 5
	MaxKeywords   = 15
)

const (
	minTaxonomyLen = 3
	maxTaxonomyLen = 50
)

// genericTerms carry no information as a category, cuisine or keyword.
var genericTerms = map[string]struct{}{
	"recipe": {}, "recipes": {}, "food": {}, "foods": {}, "dish": {}, "dishes": {},
	"meal": {}, "meals": {}, "main": {}, "mains": {}, "other": {}, "others": {},
	"general": {}, "misc": {}, "miscellaneous": {}, "uncategorized": {},
	"default": {}, "all": {}, "none": {}, "home": {}, "blog": {}, "cooking": {},
	"course": {}, "cuisine": {}, "category": {}, "n/a": {}, "null": {},
	"undefined": {},
}

// CleanTaxonomy applies the shared rule for categories, cuisines and keywords:
// each value is cleaned, kept only if it is 3 to 50 characters and not a
// generic term, deduplicated case-insensitively, and the list is capped at
// limit entries.
func CleanTaxonomy(values []string, limit int) []string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		v = CleanText(v)
		if n := runeLen(v); n < minTaxonomyLen || n > maxTaxonomyLen {
			continue
		}
		if _, generic := genericTerms[strings.ToLower(v)]; generic {
			continue
		}
		kept = append(kept, v)
	}
	kept = DedupeFold(kept)
	if len(kept) > limit {
		kept = kept[:limit]
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
