package cleanplate_test

import (
	"strings"
	"testing"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// structuredRecipe is a complete recipe as Phase 1 would produce it.
func structuredRecipe() *cleanplate.Recipe {
	return &cleanplate.Recipe{
		Title: "Lemon Garlic Chicken",
		Source: cleanplate.Source{
			URL:      "https://example.com/lemon-chicken",
			SiteName: "example.com",
		},
		Ingredients: []string{
			"2 pounds chicken thighs",
			"3 cloves garlic, minced",
			"2 tablespoons olive oil",
			"1 cup chicken broth",
			"1/2 teaspoon salt",
			"1 1/2 tablespoons lemon juice",
		},
		Instructions: []string{
			"Preheat the oven to 400F.",
			"Season the chicken with salt.",
			"Heat the oil in a skillet.",
			"Sear the chicken until golden.",
			"Add the garlic and broth.",
			"Bake for 25 minutes and serve.",
		},
		Metadata: cleanplate.Metadata{
			PrepTime: "10 minutes",
			CookTime: "30 minutes",
			Servings: "4",
			ImageURL: "https://example.com/chicken.jpg",
		},
	}
}

func TestScoreConfidence(t *testing.T) {
	t.Parallel()

	t.Run("complete structured recipe scores high", func(t *testing.T) {
		t.Parallel()

		result := cleanplate.ScoreConfidence(structuredRecipe(), cleanplate.PhaseStructuredData)

		assert.GreaterOrEqual(t, result.Score, 80)
		assert.Equal(t, cleanplate.ConfidenceHigh, result.Level)
		assert.Equal(t, 40, result.Factors["phase"].Points)
		assert.Equal(t, 10, result.Factors["title"].Points)
		assert.Equal(t, 20, result.Factors["ingredients"].Points)
		assert.Equal(t, 20, result.Factors["instructions"].Points)
		assert.Equal(t, 4, result.Factors["metadata"].Points)
		assert.Equal(t, 8, result.Factors["quality"].Points)
	})

	t.Run("clamps only the final total", func(t *testing.T) {
		t.Parallel()

		// 40 + 10 + 20 + 20 + 4 + 8 = 102
		result := cleanplate.ScoreConfidence(structuredRecipe(), cleanplate.PhaseStructuredData)

		assert.Equal(t, 100, result.Score)
	})

	t.Run("generic title scores zero without touching other factors", func(t *testing.T) {
		t.Parallel()

		named := cleanplate.ScoreConfidence(structuredRecipe(), cleanplate.PhaseStructuredData)
		generic := structuredRecipe()
		generic.Title = "Recipe"
		result := cleanplate.ScoreConfidence(generic, cleanplate.PhaseStructuredData)

		assert.Equal(t, 0, result.Factors["title"].Points)
		for _, name := range []string{"phase", "ingredients", "instructions", "metadata", "quality"} {
			assert.Equal(t, named.Factors[name], result.Factors[name], name)
		}
	})

	t.Run("treats unknown phases as the DOM phase", func(t *testing.T) {
		t.Parallel()

		result := cleanplate.ScoreConfidence(structuredRecipe(), cleanplate.Phase(7))

		assert.Equal(t, 20, result.Factors["phase"].Points)
	})

	t.Run("scores list sizes in steps", func(t *testing.T) {
		t.Parallel()

		for count, want := range map[int]int{0: 0, 1: 0, 2: 10, 4: 10, 5: 20, 9: 20} {
			r := &cleanplate.Recipe{Ingredients: make([]string, count)}
			result := cleanplate.ScoreConfidence(r, cleanplate.PhaseDOM)
			assert.Equal(t, want, result.Factors["ingredients"].Points, "count %d", count)
		}
	})

	t.Run("weights rich metadata", func(t *testing.T) {
		t.Parallel()

		r := &cleanplate.Recipe{Metadata: cleanplate.Metadata{
			PrepTime:      "10 minutes",
			CookTime:      "20 minutes",
			TotalTime:     "30 minutes",
			Servings:      "4",
			ImageURL:      "https://example.com/a.jpg",
			Description:   "A weeknight dinner.",
			Rating:        &cleanplate.Rating{Value: 4.5, Count: 12},
			Category:      []string{"Dinner"},
			Cuisine:       []string{"Italian"},
			Keywords:      []string{"quick"},
			Nutrition:     cleanplate.Nutrition{"calories": "320 kcal", "fat": "12 g", "protein": "30 g"},
			DietaryInfo:   []string{"Gluten-Free"},
			DatePublished: "2024-01-02",
			DateModified:  "2024-02-03",
			Difficulty:    cleanplate.DifficultyEasy,
		}}

		result := cleanplate.ScoreConfidence(r, cleanplate.PhaseDOM)

		assert.Equal(t, 19, result.Factors["metadata"].Points)
		assert.Equal(t, 23, result.Factors["metadata"].Max)
	})

	t.Run("ignores rating without a count and sparse nutrition", func(t *testing.T) {
		t.Parallel()

		r := &cleanplate.Recipe{Metadata: cleanplate.Metadata{
			Rating:    &cleanplate.Rating{Value: 4.5},
			Nutrition: cleanplate.Nutrition{"calories": "320 kcal"},
		}}

		result := cleanplate.ScoreConfidence(r, cleanplate.PhaseDOM)

		assert.Equal(t, 0, result.Factors["metadata"].Points)
	})

	t.Run("penalizes a single long instruction", func(t *testing.T) {
		t.Parallel()

		r := &cleanplate.Recipe{Instructions: []string{strings.Repeat("x", 501)}}

		result := cleanplate.ScoreConfidence(r, cleanplate.PhaseDOM)

		assert.Equal(t, -5, result.Factors["quality"].Points)
	})

	t.Run("rewards high retention ratios", func(t *testing.T) {
		t.Parallel()

		r := &cleanplate.Recipe{Quality: cleanplate.Quality{
			IngredientsRaw: 20, IngredientsKept: 19,
			InstructionsRaw: 10, InstructionsKept: 5,
		}}

		result := cleanplate.ScoreConfidence(r, cleanplate.PhaseDOM)

		assert.Equal(t, 1, result.Factors["quality"].Points)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		r := structuredRecipe()

		assert.Equal(t,
			cleanplate.ScoreConfidence(r, cleanplate.PhaseDOM),
			cleanplate.ScoreConfidence(r, cleanplate.PhaseDOM))
	})

	t.Run("handles nil recipe", func(t *testing.T) {
		t.Parallel()

		result := cleanplate.ScoreConfidence(nil, cleanplate.PhaseDOM)

		assert.Equal(t, 20, result.Score)
		assert.Equal(t, cleanplate.ConfidenceLow, result.Level)
	})
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	for score := 0; score <= 100; score++ {
		level := cleanplate.LevelFor(score)
		switch {
		case score >= 80:
			assert.Equal(t, cleanplate.ConfidenceHigh, level, score)
		case score >= 50:
			assert.Equal(t, cleanplate.ConfidenceMedium, level, score)
		default:
			assert.Equal(t, cleanplate.ConfidenceLow, level, score)
		}
	}
}

func TestFactor_JSON(t *testing.T) {
	t.Parallel()

	t.Run("flattens context next to points and max", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(cleanplate.Factor{Points: 10, Max: 20, Context: map[string]any{"count": 3}})

		require.NoError(t, err)
		assert.JSONEq(t, `{"points":10,"max":20,"count":3}`, string(data))
	})

	t.Run("decodes back into points, max and context", func(t *testing.T) {
		t.Parallel()

		var f cleanplate.Factor
		require.NoError(t, json.Unmarshal([]byte(`{"points":4,"max":23,"count":2}`), &f))

		assert.Equal(t, 4, f.Points)
		assert.Equal(t, 23, f.Max)
		assert.Equal(t, map[string]any{"count": float64(2)}, f.Context)
	})
}
