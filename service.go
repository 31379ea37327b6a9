package cleanplate

import "context"

// RecipeService is the single entry point of the extraction pipeline.
type RecipeService interface {
	// Extract fetches url, extracts and scores its recipe.
	// When debug is true the pipeline writes its diagnostic lines.
	// Failures are returned as *Error with a terminal error code.
	Extract(ctx context.Context, url string, debug bool) (*Envelope, error)
}

// ExtractionCache stores successful extractions by source URL.
type ExtractionCache interface {
	// FindExtraction returns the cached envelope for url.
	// Returns ENOTFOUND if nothing usable is cached.
	FindExtraction(ctx context.Context, url string) (*Envelope, error)

	// SaveExtraction stores env for url, replacing any previous entry.
	SaveExtraction(ctx context.Context, url string, env *Envelope) error

	// DeleteExtraction removes the entry for url.
	// Returns ENOTFOUND if there is none.
	DeleteExtraction(ctx context.Context, url string) error
}
