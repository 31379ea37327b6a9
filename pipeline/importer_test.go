package pipeline_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/AdamMoses-GitHub/cleanplate/mock"
	"github.com/AdamMoses-GitHub/cleanplate/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache is an in-memory cleanplate.ExtractionCache built on the mock.
func memoryCache() (*mock.ExtractionCache, map[string]*cleanplate.Envelope) {
	var mu sync.Mutex
	entries := map[string]*cleanplate.Envelope{}
	return &mock.ExtractionCache{
		FindExtractionFn: func(ctx context.Context, url string) (*cleanplate.Envelope, error) {
			mu.Lock()
			defer mu.Unlock()
			if env, ok := entries[url]; ok {
				return env, nil
			}
			return nil, cleanplate.Errorf(cleanplate.ENOTFOUND, "not cached")
		},
		SaveExtractionFn: func(ctx context.Context, url string, env *cleanplate.Envelope) error {
			mu.Lock()
			defer mu.Unlock()
			entries[url] = env
			return nil
		},
	}, entries
}

func TestImporter_Run(t *testing.T) {
	t.Parallel()

	t.Run("imports sequentially and pauses between fetched items", func(t *testing.T) {
		t.Parallel()

		var calls []string
		var pauses []time.Duration
		im := &pipeline.Importer{
			Service: &mock.RecipeService{
				ExtractFn: func(ctx context.Context, url string, debug bool) (*cleanplate.Envelope, error) {
					calls = append(calls, url)
					return &cleanplate.Envelope{Status: cleanplate.StatusSuccess}, nil
				},
			},
			Pause: 3 * time.Second,
			Sleep: func(ctx context.Context, d time.Duration) error {
				pauses = append(pauses, d)
				return nil
			},
		}

		urls := []string{"https://a.example/1", "https://a.example/2", "https://b.example/3"}
		results, err := im.Run(context.Background(), urls, nil)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, urls, calls)
		assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second}, pauses)
		for i, r := range results {
			assert.Equal(t, urls[i], r.URL)
			assert.NoError(t, r.Err)
			assert.False(t, r.Cached)
		}
	})

	t.Run("records failures without stopping", func(t *testing.T) {
		t.Parallel()

		im := &pipeline.Importer{
			Service: &mock.RecipeService{
				ExtractFn: func(ctx context.Context, url string, debug bool) (*cleanplate.Envelope, error) {
					if url == "https://example.com/bad" {
						return nil, cleanplate.Errorf(cleanplate.ENORECIPE, "no recipe")
					}
					return &cleanplate.Envelope{Status: cleanplate.StatusSuccess}, nil
				},
			},
		}

		results, err := im.Run(context.Background(), []string{"https://example.com/bad", "https://example.com/good"}, nil)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, cleanplate.ENORECIPE, cleanplate.ErrorCode(results[0].Err))
		assert.NoError(t, results[1].Err)
		assert.Equal(t, pipeline.Summary{Extracted: 1, Failed: 1}, pipeline.Summarize(results))
	})

	t.Run("serves cached urls without fetching or pausing", func(t *testing.T) {
		t.Parallel()

		cache, entries := memoryCache()
		cached := &cleanplate.Envelope{Status: cleanplate.StatusSuccess, Phase: cleanplate.PhaseDOM}
		entries["https://example.com/cached"] = cached

		var calls []string
		pauses := 0
		im := &pipeline.Importer{
			Service: &mock.RecipeService{
				ExtractFn: func(ctx context.Context, url string, debug bool) (*cleanplate.Envelope, error) {
					calls = append(calls, url)
					return &cleanplate.Envelope{Status: cleanplate.StatusSuccess}, nil
				},
			},
			Cache: cache,
			Pause: time.Second,
			Sleep: func(ctx context.Context, d time.Duration) error {
				pauses++
				return nil
			},
		}

		urls := []string{"https://example.com/cached", "https://example.com/fresh"}
		results, err := im.Run(context.Background(), urls, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"https://example.com/fresh"}, calls)
		assert.Zero(t, pauses, "no pause after a cached item or after the last item")
		assert.True(t, results[0].Cached)
		assert.Same(t, cached, results[0].Envelope)
		assert.Contains(t, entries, "https://example.com/fresh", "fresh extractions are cached")
		assert.Equal(t, pipeline.Summary{Extracted: 1, Cached: 1}, pipeline.Summarize(results))
	})

	t.Run("does not cache failures", func(t *testing.T) {
		t.Parallel()

		cache, entries := memoryCache()
		im := &pipeline.Importer{
			Service: &mock.RecipeService{
				ExtractFn: func(ctx context.Context, url string, debug bool) (*cleanplate.Envelope, error) {
					return nil, cleanplate.Errorf(cleanplate.EBOTCHALLENGE, "challenge")
				},
			},
			Cache: cache,
		}

		_, err := im.Run(context.Background(), []string{"https://example.com/x"}, nil)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		im := &pipeline.Importer{
			Service: &mock.RecipeService{
				ExtractFn: func(ctx context.Context, url string, debug bool) (*cleanplate.Envelope, error) {
					return &cleanplate.Envelope{Status: cleanplate.StatusSuccess}, nil
				},
			},
			Pause: time.Second,
			Sleep: func(ctx context.Context, d time.Duration) error {
				cancel()
				return ctx.Err()
			},
		}

		results, err := im.Run(ctx, []string{"https://example.com/1", "https://example.com/2"}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Len(t, results, 1)
	})

	t.Run("reports progress", func(t *testing.T) {
		t.Parallel()

		im := &pipeline.Importer{
			Service: &mock.RecipeService{
				ExtractFn: func(ctx context.Context, url string, debug bool) (*cleanplate.Envelope, error) {
					if url == "https://example.com/2" {
						return nil, cleanplate.Errorf(cleanplate.EHTTP, "HTTP 500")
					}
					return &cleanplate.Envelope{Status: cleanplate.StatusSuccess}, nil
				},
			},
		}

		var events []pipeline.ProgressEvent
		_, err := im.Run(context.Background(), []string{"https://example.com/1", "https://example.com/2"}, func(e pipeline.ProgressEvent) {
			events = append(events, e)
		})
		require.NoError(t, err)

		require.Len(t, events, 4)
		assert.Equal(t, pipeline.ProgressStarted, events[0].Type)
		assert.Equal(t, pipeline.ProgressCompleted, events[1].Type)
		assert.Equal(t, 1, events[1].Completed)
		assert.Equal(t, pipeline.ProgressFailed, events[2].Type)
		assert.Equal(t, "https://example.com/2", events[2].URL)
		assert.Error(t, events[2].Error)
		assert.Equal(t, pipeline.ProgressFinished, events[3].Type)
		for _, e := range events {
			assert.Equal(t, 2, e.Total)
		}
	})
}
