package mock

import "github.com/AdamMoses-GitHub/cleanplate"

var _ cleanplate.RecipeExtractor = (*RecipeExtractor)(nil)

// RecipeExtractor is a mock implementation of cleanplate.RecipeExtractor.
type RecipeExtractor struct {
	ExtractFn func(html string, pageURL string) *cleanplate.Recipe
}

func (e *RecipeExtractor) Extract(html string, pageURL string) *cleanplate.Recipe {
	return e.ExtractFn(html, pageURL)
}

var _ cleanplate.AuthorFinder = (*AuthorFinder)(nil)

// AuthorFinder is a mock implementation of cleanplate.AuthorFinder.
type AuthorFinder struct {
	FindAuthorFn func(html string) string
}

func (f *AuthorFinder) FindAuthor(html string) string {
	return f.FindAuthorFn(html)
}

var _ cleanplate.ImageRanker = (*ImageRanker)(nil)

// ImageRanker is a mock implementation of cleanplate.ImageRanker.
type ImageRanker struct {
	RankFn func(html string, baseURL string, primary string) []cleanplate.ImageCandidate
}

func (r *ImageRanker) Rank(html string, baseURL string, primary string) []cleanplate.ImageCandidate {
	return r.RankFn(html, baseURL, primary)
}
