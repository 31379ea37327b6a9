package cleanplate

// ImageSource identifies where an image candidate was found.
type ImageSource string

// ImageSource constants, in priority order.
const (
	ImageFromStructuredData ImageSource = "structured-data"
	ImageFromOpenGraph      ImageSource = "og:image"
	ImageFromDOM            ImageSource = "dom"
)

// MaxImageCandidates caps the ranked candidate list.
const MaxImageCandidates = 3

// ImageCandidate is one scored image considered as the recipe photo.
type ImageCandidate struct {
	URL    string      `json:"url"`
	Score  int         `json:"score"`
	Source ImageSource `json:"source"`
	Alt    string      `json:"alt,omitempty"`
}

// ImageRanker collects, scores and ranks candidate images for a page.
type ImageRanker interface {
	// Rank returns at most MaxImageCandidates candidates sorted strictly
	// descending by score. primary is the structured-data image, or "".
	Rank(html string, baseURL string, primary string) []ImageCandidate
}
