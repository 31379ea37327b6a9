package mock

import (
	"context"

	"github.com/AdamMoses-GitHub/cleanplate"
)

var _ cleanplate.RecipeService = (*RecipeService)(nil)

// RecipeService is a mock implementation of cleanplate.RecipeService.
type RecipeService struct {
	ExtractFn func(ctx context.Context, url string, debug bool) (*cleanplate.Envelope, error)
}

func (s *RecipeService) Extract(ctx context.Context, url string, debug bool) (*cleanplate.Envelope, error) {
	return s.ExtractFn(ctx, url, debug)
}

var _ cleanplate.ExtractionCache = (*ExtractionCache)(nil)

// ExtractionCache is a mock implementation of cleanplate.ExtractionCache.
type ExtractionCache struct {
	FindExtractionFn   func(ctx context.Context, url string) (*cleanplate.Envelope, error)
	SaveExtractionFn   func(ctx context.Context, url string, env *cleanplate.Envelope) error
	DeleteExtractionFn func(ctx context.Context, url string) error
}

func (c *ExtractionCache) FindExtraction(ctx context.Context, url string) (*cleanplate.Envelope, error) {
	return c.FindExtractionFn(ctx, url)
}

func (c *ExtractionCache) SaveExtraction(ctx context.Context, url string, env *cleanplate.Envelope) error {
	return c.SaveExtractionFn(ctx, url, env)
}

func (c *ExtractionCache) DeleteExtraction(ctx context.Context, url string) error {
	return c.DeleteExtractionFn(ctx, url)
}
