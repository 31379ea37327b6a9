package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/AdamMoses-GitHub/cleanplate"
)

// DefaultPause is the wait between two fetched items of a batch.
const DefaultPause = 2 * time.Second

// ImportResult is the outcome of one batch item.
type ImportResult struct {
	URL      string
	Envelope *cleanplate.Envelope
	Cached   bool
	Err      error
}

// ProgressEvent reports progress during an import.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Cached    bool
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting import progress.
type ProgressFunc func(event ProgressEvent)

// Importer extracts a list of URLs one at a time.
type Importer struct {
	Service cleanplate.RecipeService

	// Cache serves previously extracted URLs and stores new ones. Optional.
	Cache cleanplate.ExtractionCache

	// Pause is slept after every item that was fetched, except the last.
	Pause time.Duration

	// Sleep defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// Logger receives cache write failures. Optional.
	Logger *slog.Logger
}

// Run imports urls in order. Item failures are recorded in the results and
// never stop the batch; only context cancellation does, in which case the
// results gathered so far are returned with the context error.
func (im *Importer) Run(ctx context.Context, urls []string, progress ProgressFunc) ([]ImportResult, error) {
	notify := func(e ProgressEvent) {
		if progress != nil {
			e.Total = len(urls)
			progress(e)
		}
	}
	notify(ProgressEvent{Type: ProgressStarted})

	results := make([]ImportResult, 0, len(urls))
	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := im.importOne(ctx, u)
		results = append(results, res)

		event := ProgressEvent{Type: ProgressCompleted, Completed: i + 1, URL: u, Cached: res.Cached}
		if res.Err != nil {
			event.Type = ProgressFailed
			event.Error = res.Err
		}
		notify(event)

		if !res.Cached && i < len(urls)-1 && im.Pause > 0 {
			if err := im.sleep(ctx, im.Pause); err != nil {
				return results, err
			}
		}
	}

	notify(ProgressEvent{Type: ProgressFinished, Completed: len(urls)})
	return results, nil
}

func (im *Importer) importOne(ctx context.Context, u string) ImportResult {
	if im.Cache != nil {
		if env, err := im.Cache.FindExtraction(ctx, u); err == nil {
			return ImportResult{URL: u, Envelope: env, Cached: true}
		}
	}

	env, err := im.Service.Extract(ctx, u, false)
	if err != nil {
		return ImportResult{URL: u, Err: err}
	}

	if im.Cache != nil {
		if err := im.Cache.SaveExtraction(ctx, u, env); err != nil && im.Logger != nil {
			im.Logger.Warn("cache save failed", "url", u, "err", err)
		}
	}
	return ImportResult{URL: u, Envelope: env}
}

func (im *Importer) sleep(ctx context.Context, d time.Duration) error {
	if im.Sleep != nil {
		return im.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Summary counts the outcomes of an import.
type Summary struct {
	Extracted int
	Cached    int
	Failed    int
}

// Summarize tallies results.
func Summarize(results []ImportResult) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Cached:
			s.Cached++
		default:
			s.Extracted++
		}
	}
	return s
}
