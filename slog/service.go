package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/AdamMoses-GitHub/cleanplate"
)

// Ensure LoggingService implements cleanplate.RecipeService.
var _ cleanplate.RecipeService = (*LoggingService)(nil)

// LoggingService wraps a RecipeService with one log line per extraction.
type LoggingService struct {
	next   cleanplate.RecipeService
	logger *slog.Logger
}

// NewLoggingService creates a new LoggingService.
func NewLoggingService(next cleanplate.RecipeService, logger *slog.Logger) *LoggingService {
	return &LoggingService{next: next, logger: logger}
}

// Extract delegates to the wrapped service and logs the outcome.
func (s *LoggingService) Extract(ctx context.Context, url string, debug bool) (env *cleanplate.Envelope, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Warn("extraction failed",
				"url", url,
				"code", cleanplate.ErrorCode(err),
				"err", err,
				"duration", time.Since(begin),
			)
			return
		}
		s.logger.Info("extraction",
			"url", url,
			"phase", int(env.Phase),
			"confidence", env.Confidence,
			"confidenceLevel", string(env.ConfidenceLevel),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.Extract(ctx, url, debug)
}
