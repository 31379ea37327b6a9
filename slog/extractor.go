package slog

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/AdamMoses-GitHub/cleanplate"
)

// Ensure LoggingExtractor implements cleanplate.RecipeExtractor.
var _ cleanplate.RecipeExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a RecipeExtractor with debug logging.
type LoggingExtractor struct {
	next   cleanplate.RecipeExtractor
	name   string
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor. The extractor is
// named by its Name method when it has one.
func NewLoggingExtractor(next cleanplate.RecipeExtractor, logger *slog.Logger) *LoggingExtractor {
	name := fmt.Sprintf("%T", next)
	if n, ok := next.(interface{ Name() string }); ok {
		name = n.Name()
	}
	return &LoggingExtractor{next: next, name: name, logger: logger}
}

// Extract delegates to the wrapped extractor and logs what it found.
func (e *LoggingExtractor) Extract(html string, pageURL string) (recipe *cleanplate.Recipe) {
	defer func(begin time.Time) {
		attrs := []any{
			"extractor", e.name,
			"url", pageURL,
			"found", recipe != nil,
		}
		if recipe != nil {
			attrs = append(attrs,
				"ingredients", len(recipe.Ingredients),
				"instructions", len(recipe.Instructions),
				"rejected", len(recipe.Quality.Rejected),
			)
		}
		e.logger.Debug("extract", append(attrs, "duration", time.Since(begin))...)
	}(time.Now())
	return e.next.Extract(html, pageURL)
}
