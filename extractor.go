package cleanplate

// RecipeExtractor turns a fetched page into a normalized recipe.
//
// Extraction is best effort: malformed markup and missing optional fields
// are absorbed locally. Extract returns nil when the page holds no usable
// recipe for this strategy; it never returns an error.
type RecipeExtractor interface {
	Extract(html string, pageURL string) *Recipe
}

// AuthorFinder locates a recipe author outside structured data.
type AuthorFinder interface {
	// FindAuthor tries meta tags first, then common byline markup.
	// Returns "" if no plausible author is found.
	FindAuthor(html string) string
}
