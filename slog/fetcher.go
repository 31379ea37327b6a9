// Package slog provides log/slog decorators for the cleanplate interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/AdamMoses-GitHub/cleanplate"
)

// Ensure LoggingFetcher implements cleanplate.Fetcher.
var _ cleanplate.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging of every fetch.
type LoggingFetcher struct {
	next   cleanplate.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next cleanplate.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
		}
		if err != nil {
			f.logger.Warn("fetch", append(attrs, "code", cleanplate.ErrorCode(err), "err", err)...)
			return
		}
		f.logger.Info("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
