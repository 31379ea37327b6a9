package cleanplate

import "time"

// PlaceholderTitle is stored when a page yields no usable title.
const PlaceholderTitle = "Untitled Recipe"

// Phase identifies which extraction strategy produced a recipe.
type Phase int

// Phase constants. Structured data is tried first, the DOM heuristics second.
const (
	PhaseStructuredData Phase = 1
	PhaseDOM            Phase = 2
)

// Recipe is the normalized recipe returned by both extraction phases.
// Ingredients and instructions keep document order.
type Recipe struct {
	Title        string   `json:"title"`
	Source       Source   `json:"source"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Metadata     Metadata `json:"metadata"`

	// Quality records what the noise filter did to the raw lists.
	// It feeds confidence scoring and debug logging only.
	Quality Quality `json:"-"`
}

// Source describes where a recipe came from.
type Source struct {
	URL      string `json:"url"`
	SiteName string `json:"siteName"`
	Author   string `json:"author,omitempty"`
}

// Metadata holds the optional recipe fields. Absent fields are omitted
// from the JSON object entirely.
type Metadata struct {
	PrepTime        string           `json:"prepTime,omitempty"`
	CookTime        string           `json:"cookTime,omitempty"`
	TotalTime       string           `json:"totalTime,omitempty"`
	Servings        string           `json:"servings,omitempty"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	ImageCandidates []ImageCandidate `json:"imageCandidates,omitempty"`
	Description     string           `json:"description,omitempty"`
	Category        []string         `json:"category,omitempty"`
	Cuisine         []string         `json:"cuisine,omitempty"`
	Keywords        []string         `json:"keywords,omitempty"`
	DietaryInfo     []string         `json:"dietaryInfo,omitempty"`
	Rating          *Rating          `json:"rating,omitempty"`
	Nutrition       Nutrition        `json:"nutrition,omitempty"`
	DatePublished   string           `json:"datePublished,omitempty"`
	DateModified    string           `json:"dateModified,omitempty"`
	Difficulty      Difficulty       `json:"difficulty,omitempty"`
	Video           *Video           `json:"video,omitempty"`
}

// Rating is an aggregate rating. Value is in [0,5] with one decimal.
type Rating struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Valid reports whether both the value and the count are usable.
func (r *Rating) Valid() bool {
	return r != nil && r.Value >= 0 && r.Value <= 5 && r.Count > 0
}

// Nutrition maps canonical nutrient names to their display values.
type Nutrition map[string]string

// MinNutritionFields is the number of recognized nutrients a record needs
// before it is kept.
const MinNutritionFields = 3

// Video is an embeddable recipe video.
type Video struct {
	URL       string        `json:"url"`
	Platform  VideoPlatform `json:"platform"`
	Thumbnail string        `json:"thumbnail,omitempty"`
}

// VideoPlatform names the host a video is served from.
type VideoPlatform string

// VideoPlatform constants.
const (
	VideoYouTube  VideoPlatform = "youtube"
	VideoVimeo    VideoPlatform = "vimeo"
	VideoHTML5    VideoPlatform = "html5"
	VideoExternal VideoPlatform = "external"
)

// Quality is the noise-filter bookkeeping for one extraction.
type Quality struct {
	IngredientsRaw   int
	IngredientsKept  int
	InstructionsRaw  int
	InstructionsKept int
	Rejected         []Rejection
}

// IngredientRatio returns the fraction of raw ingredients that survived
// filtering. Nothing was dropped from an empty list, so that yields 1.
func (q Quality) IngredientRatio() float64 {
	return ratio(q.IngredientsKept, q.IngredientsRaw)
}

// InstructionRatio returns the fraction of raw instructions that survived
// filtering, or 1 for an empty list.
func (q Quality) InstructionRatio() float64 {
	return ratio(q.InstructionsKept, q.InstructionsRaw)
}

func ratio(kept, raw int) float64 {
	if raw <= 0 {
		return 1
	}
	return float64(kept) / float64(raw)
}

// Envelope is the response of one successful extraction.
type Envelope struct {
	Status            string            `json:"status"`
	Phase             Phase             `json:"phase"`
	Confidence        int               `json:"confidence"`
	ConfidenceLevel   ConfidenceLevel   `json:"confidenceLevel"`
	ConfidenceDetails map[string]Factor `json:"confidenceDetails"`
	Data              *Recipe           `json:"data"`
	Timestamp         time.Time         `json:"timestamp"`
}

// StatusSuccess is the only status an Envelope carries; failures are errors.
const StatusSuccess = "success"

// NewEnvelope wraps a scored recipe.
func NewEnvelope(recipe *Recipe, phase Phase, result ConfidenceResult, timestamp time.Time) *Envelope {
	return &Envelope{
		Status:            StatusSuccess,
		Phase:             phase,
		Confidence:        result.Score,
		ConfidenceLevel:   result.Level,
		ConfidenceDetails: result.Factors,
		Data:              recipe,
		Timestamp:         timestamp.UTC(),
	}
}
