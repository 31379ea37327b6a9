package cleanplate

import (
	"strings"

	"github.com/goccy/go-json"
)

// ConfidenceLevel is the coarse bucket of a confidence score.
type ConfidenceLevel string

// ConfidenceLevel constants.
const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// LevelFor maps a score to its level: high from 80, medium from 50.
func LevelFor(score int) ConfidenceLevel {
	switch {
	case score >= 80:
		return ConfidenceHigh
	case score >= 50:
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// Factor names, in the order they are reported.
const (
	FactorPhase        = "phase"
	FactorTitle        = "title"
	FactorIngredients  = "ingredients"
	FactorInstructions = "instructions"
	FactorMetadata     = "metadata"
	FactorQuality      = "quality"
)

// FactorOrder lists every factor name in reporting order.
var FactorOrder = []string{
	FactorPhase, FactorTitle, FactorIngredients, FactorInstructions, FactorMetadata, FactorQuality,
}

// Point budget.
const (
	MaxPhasePoints    = 40
	MaxTitlePoints    = 10
	MaxListPoints     = 20
	MaxMetadataPoints = 23
	MaxQualityPoints  = 10
)

// Factor is one scored category. Context carries the raw inputs (counts,
// present fields, applied adjustments) and is flattened into the JSON object
// next to points and max.
type Factor struct {
	Points  int
	Max     int
	Context map[string]any
}

// MarshalJSON encodes the factor as {"points":..,"max":..,<context>...}.
func (f Factor) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(f.Context)+2)
	for k, v := range f.Context {
		m[k] = v
	}
	m["points"] = f.Points
	m["max"] = f.Max
	return json.Marshal(m)
}

// UnmarshalJSON is the inverse of MarshalJSON. Context numbers decode as float64.
func (f *Factor) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	points, _ := m["points"].(float64)
	maxPoints, _ := m["max"].(float64)
	delete(m, "points")
	delete(m, "max")

	f.Points = int(points)
	f.Max = int(maxPoints)
	f.Context = nil
	if len(m) > 0 {
		f.Context = m
	}
	return nil
}

// ConfidenceResult is the explainable score of one extraction.
type ConfidenceResult struct {
	Score   int               `json:"score"`
	Level   ConfidenceLevel   `json:"level"`
	Factors map[string]Factor `json:"factors"`
}

// placeholderTitles are titles that say nothing about the recipe.
var placeholderTitles = map[string]struct{}{
	"recipe": {}, "recipes": {}, "untitled": {}, "untitled recipe": {},
	"no title": {}, "title": {}, "home": {}, "homepage": {}, "n/a": {},
	"page not found": {}, "404": {},
}

// metadataField is one weighted entry of the metadata completeness score.
type metadataField struct {
	name    string
	points  int
	present func(m *Metadata) bool
}

var metadataFields = []metadataField{
	{"prepTime", 1, func(m *Metadata) bool { return nonEmpty(m.PrepTime) }},
	{"cookTime", 1, func(m *Metadata) bool { return nonEmpty(m.CookTime) }},
	{"totalTime", 1, func(m *Metadata) bool { return nonEmpty(m.TotalTime) }},
	{"servings", 1, func(m *Metadata) bool { return nonEmpty(m.Servings) }},
	{"imageUrl", 1, func(m *Metadata) bool { return nonEmpty(m.ImageURL) }},
	{"description", 2, func(m *Metadata) bool { return nonEmpty(m.Description) }},
	{"rating", 2, func(m *Metadata) bool { return m.Rating.Valid() }},
	{"category", 1, func(m *Metadata) bool { return len(m.Category) > 0 }},
	{"cuisine", 1, func(m *Metadata) bool { return len(m.Cuisine) > 0 }},
	{"keywords", 1, func(m *Metadata) bool { return len(m.Keywords) > 0 }},
	{"nutrition", 2, func(m *Metadata) bool { return len(m.Nutrition) >= MinNutritionFields }},
	{"dietaryInfo", 2, func(m *Metadata) bool { return len(m.DietaryInfo) > 0 }},
	{"datePublished", 1, func(m *Metadata) bool { return nonEmpty(m.DatePublished) }},
	{"dateModified", 1, func(m *Metadata) bool { return nonEmpty(m.DateModified) }},
	{"difficulty", 1, func(m *Metadata) bool { return m.Difficulty != "" }},
}

// Quality adjustment thresholds.
const (
	measurementShare     = 0.70
	cookingVerbShare     = 0.50
	singleStepMaxLen     = 500
	retentionRatioTarget = 0.95
)

// ScoreConfidence scores a recipe on a fixed 100-point budget. It is a pure
// function of its inputs. Any phase other than PhaseStructuredData scores as
// PhaseDOM. Only the final total is clamped; the quality adjustments may
// push the raw sum past 100 before that.
func ScoreConfidence(recipe *Recipe, phase Phase) ConfidenceResult {
	if recipe == nil {
		recipe = &Recipe{}
	}
	if phase != PhaseStructuredData {
		phase = PhaseDOM
	}

	factors := map[string]Factor{
		FactorPhase:        scorePhase(phase),
		FactorTitle:        scoreTitle(recipe.Title),
		FactorIngredients:  scoreList(len(recipe.Ingredients)),
		FactorInstructions: scoreList(len(recipe.Instructions)),
		FactorMetadata:     scoreMetadata(&recipe.Metadata),
		FactorQuality:      scoreQuality(recipe),
	}

	total := 0
	for _, f := range factors {
		total += f.Points
	}
	total = max(0, min(100, total))

	return ConfidenceResult{
		Score:   total,
		Level:   LevelFor(total),
		Factors: factors,
	}
}

func scorePhase(phase Phase) Factor {
	points := 20
	if phase == PhaseStructuredData {
		points = MaxPhasePoints
	}
	return Factor{Points: points, Max: MaxPhasePoints, Context: map[string]any{"phase": int(phase)}}
}

func scoreTitle(title string) Factor {
	generic := IsPlaceholderTitle(title)
	points := MaxTitlePoints
	if generic {
		points = 0
	}
	return Factor{Points: points, Max: MaxTitlePoints, Context: map[string]any{"generic": generic}}
}

// IsPlaceholderTitle reports whether a title is empty or generic.
func IsPlaceholderTitle(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return true
	}
	_, ok := placeholderTitles[t]
	return ok
}

func scoreList(count int) Factor {
	points := 0
	switch {
	case count >= 5:
		points = MaxListPoints
	case count >= 2:
		points = 10
	}
	return Factor{Points: points, Max: MaxListPoints, Context: map[string]any{"count": count}}
}

func scoreMetadata(m *Metadata) Factor {
	points := 0
	var fields []string
	for _, field := range metadataFields {
		if field.present(m) {
			points += field.points
			fields = append(fields, field.name)
		}
	}
	return Factor{
		Points:  points,
		Max:     MaxMetadataPoints,
		Context: map[string]any{"count": len(fields), "fields": fields},
	}
}

func scoreQuality(r *Recipe) Factor {
	points := 0
	var applied []string

	if n := len(r.Ingredients); n > 0 {
		measured := 0
		for _, ing := range r.Ingredients {
			if HasMeasurement(ing) {
				measured++
			}
		}
		if float64(measured)/float64(n) >= measurementShare {
			points += 5
			applied = append(applied, "measurements+5")
		}
	}

	if n := len(r.Instructions); n > 0 {
		verbs := 0
		for _, step := range r.Instructions {
			if HasCookingVerb(step) {
				verbs++
			}
		}
		if float64(verbs)/float64(n) >= cookingVerbShare {
			points += 3
			applied = append(applied, "verbs+3")
		}
		if n == 1 && runeLen(r.Instructions[0]) > singleStepMaxLen {
			points -= 5
			applied = append(applied, "single-step-5")
		}
	}

	if r.Quality.IngredientsRaw > 0 && r.Quality.IngredientRatio() >= retentionRatioTarget {
		points++
		applied = append(applied, "ingredient-retention+1")
	}
	if r.Quality.InstructionsRaw > 0 && r.Quality.InstructionRatio() >= retentionRatioTarget {
		points++
		applied = append(applied, "instruction-retention+1")
	}

	return Factor{Points: points, Max: MaxQualityPoints, Context: map[string]any{"adjustments": applied}}
}

func nonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}
