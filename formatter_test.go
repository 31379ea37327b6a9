package cleanplate_test

import (
	"testing"
	"time"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/stretchr/testify/assert"
)

var debugTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func TestFormatConfidenceLine(t *testing.T) {
	t.Parallel()

	t.Run("renders every factor in order", func(t *testing.T) {
		t.Parallel()

		result := cleanplate.ConfidenceResult{
			Score: 86,
			Level: cleanplate.ConfidenceHigh,
			Factors: map[string]cleanplate.Factor{
				"phase":        {Points: 40, Max: 40},
				"title":        {Points: 10, Max: 10},
				"ingredients":  {Points: 20, Max: 20, Context: map[string]any{"count": 6}},
				"instructions": {Points: 10, Max: 20, Context: map[string]any{"count": 3}},
				"metadata":     {Points: 4, Max: 23, Context: map[string]any{"count": 4}},
				"quality":      {Points: 2, Max: 10, Context: map[string]any{"adjustments": []string{"ingredient-retention+1", "instruction-retention+1"}}},
			},
		}

		line := cleanplate.FormatConfidenceLine(debugTime, "example.com", cleanplate.PhaseStructuredData, result)

		expected := "[2026-03-14T09:26:53Z] CONFIDENCE | example.com | Phase 1 | Score: 86/100 (HIGH) | " +
			"phase=40/40, title=10/10, ingredients=20/20(6 items), instructions=10/20(3 items), " +
			"metadata=4/23(4 fields), quality=2/10(ingredient-retention+1,instruction-retention+1)"
		assert.Equal(t, expected, line)
	})

	t.Run("omits parentheses when no adjustment applied", func(t *testing.T) {
		t.Parallel()

		result := cleanplate.ScoreConfidence(&cleanplate.Recipe{}, cleanplate.PhaseDOM)

		line := cleanplate.FormatConfidenceLine(debugTime, "example.com", cleanplate.PhaseDOM, result)

		assert.Contains(t, line, "| Phase 2 | Score: 20/100 (LOW) |")
		assert.Contains(t, line, "quality=0/10")
		assert.NotContains(t, line, "quality=0/10(")
	})
}

func TestFormatRejectionLine(t *testing.T) {
	t.Parallel()

	line := cleanplate.FormatRejectionLine(debugTime, cleanplate.Rejection{
		Kind:   cleanplate.KindIngredient,
		Text:   "Print Recipe",
		Reason: cleanplate.ReasonNavigation,
	})

	assert.Equal(t, `[2026-03-14T09:26:53Z] FILTER | ingredient | rejected "Print Recipe" | navigation or UI text`, line)
}
