// Package pipeline wires fetching, the two extraction phases and confidence
// scoring into cleanplate.RecipeService, and runs sequential batch imports
// on top of it.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/AdamMoses-GitHub/cleanplate"
)

// Ensure Service implements cleanplate.RecipeService.
var _ cleanplate.RecipeService = (*Service)(nil)

// Service extracts one recipe per call. Structured is tried first; DOM runs
// only when Structured finds nothing.
type Service struct {
	Fetcher    cleanplate.Fetcher
	Structured cleanplate.RecipeExtractor
	DOM        cleanplate.RecipeExtractor

	// Validator screens URLs before they are fetched. Optional.
	Validator cleanplate.URLValidator

	// DebugLog receives the FILTER and CONFIDENCE lines of debug
	// extractions. Nil discards them.
	DebugLog io.Writer

	// Now stamps envelopes and debug lines. Defaults to time.Now.
	Now func() time.Time
}

// Extract fetches rawURL and returns its scored recipe.
func (s *Service) Extract(ctx context.Context, rawURL string, debug bool) (*cleanplate.Envelope, error) {
	if s.Validator != nil {
		if err := s.Validator.Validate(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	html, err := s.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	recipe, phase := s.extract(html, rawURL)
	if recipe == nil {
		return nil, cleanplate.Errorf(cleanplate.ENORECIPE, "no recipe found at %s", rawURL)
	}

	result := cleanplate.ScoreConfidence(recipe, phase)
	now := s.now()
	if debug {
		s.writeDebug(now, rawURL, phase, recipe, result)
	}
	return cleanplate.NewEnvelope(recipe, phase, result, now), nil
}

// extract runs the phases in order and stops at the first recipe.
func (s *Service) extract(html, pageURL string) (*cleanplate.Recipe, cleanplate.Phase) {
	if s.Structured != nil {
		if r := s.Structured.Extract(html, pageURL); r != nil {
			return r, cleanplate.PhaseStructuredData
		}
	}
	if s.DOM != nil {
		if r := s.DOM.Extract(html, pageURL); r != nil {
			return r, cleanplate.PhaseDOM
		}
	}
	return nil, 0
}

func (s *Service) writeDebug(now time.Time, pageURL string, phase cleanplate.Phase, recipe *cleanplate.Recipe, result cleanplate.ConfidenceResult) {
	if s.DebugLog == nil {
		return
	}
	for _, r := range recipe.Quality.Rejected {
		fmt.Fprintln(s.DebugLog, cleanplate.FormatRejectionLine(now, r))
	}
	domain := cleanplate.SiteNameFromURL(pageURL)
	fmt.Fprintln(s.DebugLog, cleanplate.FormatConfidenceLine(now, domain, phase, result))
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
