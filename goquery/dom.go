package goquery

import (
	"regexp"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Ensure Extractor implements cleanplate.RecipeExtractor.
var _ cleanplate.RecipeExtractor = (*Extractor)(nil)

var (
	ingredientHints  = []string{"ingredient"}
	instructionHints = []string{"instruction", "direction", "method"}
	titleHints       = []string{"recipe", "title"}
)

// itemTags are elements that hold a single item or a heading and are never
// treated as list containers themselves.
var itemTags = map[string]bool{
	"li": true, "span": true, "p": true, "a": true, "label": true,
	"input": true, "img": true, "button": true, "strong": true, "em": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// itemSelectors are tried in order inside a container.
var itemSelectors = []string{"li", "p", "span"}

var (
	videoIframe     = cascadia.MustCompile(`iframe[src*="youtube"], iframe[src*="youtu.be"], iframe[src*="vimeo"], iframe[data-src*="youtube"]`)
	publishedDate   = cascadia.MustCompile(`[itemprop="datePublished"], time[datetime]`)
	modifiedDate    = cascadia.MustCompile(`[itemprop="dateModified"]`)
	difficultyLabel = regexp.MustCompile(`(?i)\bdifficulty\s*[:\-]\s*([\p{L}\s-]{3,30})`)
)

// Extractor is the fallback recipe extractor for pages without structured
// data. It finds ingredient and instruction lists by class and id naming
// conventions and reads the rest from meta tags.
type Extractor struct {
	Filter  *cleanplate.IngredientFilter
	Images  cleanplate.ImageRanker
	Authors cleanplate.AuthorFinder
}

// NewExtractor creates an Extractor using the given noise filter.
func NewExtractor(filter *cleanplate.IngredientFilter) *Extractor {
	return &Extractor{
		Filter:  filter,
		Images:  NewImageRanker(),
		Authors: NewAuthorFinder(),
	}
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string {
	return "dom"
}

// Extract returns the recipe found by DOM heuristics, or nil if the page
// yields neither ingredients nor instructions after filtering.
func (e *Extractor) Extract(html string, pageURL string) *cleanplate.Recipe {
	doc, err := Parse(html)
	if err != nil {
		return nil
	}

	ingredients := findItems(doc, ingredientHints)
	for i, ing := range ingredients {
		ingredients[i] = cleanplate.FormatQuantities(ing)
	}
	ingredients = cleanplate.Dedupe(ingredients)
	instructions := cleanplate.Dedupe(findItems(doc, instructionHints))

	filter := e.Filter
	if filter == nil {
		filter = cleanplate.NewIngredientFilter(cleanplate.StrictnessBalanced)
	}
	recipe := &cleanplate.Recipe{Title: findTitle(doc)}
	filter.Apply(recipe, ingredients, instructions)
	if len(recipe.Ingredients) == 0 && len(recipe.Instructions) == 0 {
		return nil
	}

	recipe.Source = cleanplate.Source{
		URL:      pageURL,
		SiteName: SiteName(doc, pageURL),
		Author:   e.findAuthor(doc, html),
	}
	recipe.Metadata = e.metadata(doc, html, pageURL)
	return recipe
}

func (e *Extractor) findAuthor(doc *goquery.Document, html string) string {
	if e.Authors == nil {
		return findAuthor(doc)
	}
	return e.Authors.FindAuthor(html)
}

func (e *Extractor) metadata(doc *goquery.Document, html string, pageURL string) cleanplate.Metadata {
	m := cleanplate.Metadata{
		Description:   MetaContent(doc, "description", "og:description", "twitter:description"),
		Keywords:      cleanplate.CleanTaxonomy(cleanplate.SplitList(MetaContent(doc, "keywords")), cleanplate.MaxKeywords),
		DatePublished: findDate(doc, publishedDate, "article:published_time", "datePublished", "date"),
		DateModified:  findDate(doc, modifiedDate, "article:modified_time", "og:updated_time", "dateModified"),
		Difficulty:    findDifficulty(doc),
		Video:         findVideo(doc),
	}

	var images []cleanplate.ImageCandidate
	if e.Images == nil {
		images = rankImages(doc, pageURL, "")
	} else {
		images = e.Images.Rank(html, pageURL, "")
	}
	if len(images) > 0 {
		m.ImageCandidates = images
		m.ImageURL = images[0].URL
	}
	return m
}

// findTitle returns the first h1 hinting at a recipe title, else the first
// h1, else the placeholder.
func findTitle(doc *goquery.Document) string {
	var hinted, first string
	doc.Find("h1").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := nodeText(s)
		if text == "" {
			return true
		}
		if first == "" {
			first = text
		}
		if hintMatches(s, titleHints...) {
			hinted = text
			return false
		}
		return true
	})
	switch {
	case hinted != "":
		return hinted
	case first != "":
		return first
	}
	return cleanplate.PlaceholderTitle
}

// findItems returns the items of the first container, in document order,
// whose class or id contains one of the hints and which yields any items.
func findItems(doc *goquery.Document, hints []string) []string {
	var items []string
	doc.Find("[class], [id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if itemTags[goquery.NodeName(s)] || !hintMatches(s, hints...) {
			return true
		}
		items = containerItems(s)
		return len(items) == 0
	})
	return items
}

func containerItems(container *goquery.Selection) []string {
	for _, sel := range itemSelectors {
		var items []string
		container.Find(sel).Each(func(_ int, s *goquery.Selection) {
			// Nested lists are read through their innermost items.
			if sel == "li" && s.Find("li").Length() > 0 {
				return
			}
			if text := nodeText(s); text != "" {
				items = append(items, text)
			}
		})
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

func findDate(doc *goquery.Document, sel cascadia.Selector, metaKeys ...string) string {
	if d := cleanplate.NormalizeDate(MetaContent(doc, metaKeys...)); d != "" {
		return d
	}
	var date string
	doc.FindMatcher(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range []string{"datetime", "content"} {
			if v, ok := s.Attr(attr); ok {
				date = cleanplate.NormalizeDate(v)
				break
			}
		}
		if date == "" {
			date = cleanplate.NormalizeDate(nodeText(s))
		}
		return date == ""
	})
	return date
}

func findDifficulty(doc *goquery.Document) cleanplate.Difficulty {
	var d cleanplate.Difficulty
	doc.Find("[class], [id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !hintMatches(s, "difficulty") {
			return true
		}
		d = cleanplate.ParseDifficulty(nodeText(s))
		return d == ""
	})
	if d != "" {
		return d
	}
	if m := difficultyLabel.FindStringSubmatch(nodeText(doc.Find("body"))); m != nil {
		return cleanplate.ParseDifficulty(m[1])
	}
	return ""
}

func findVideo(doc *goquery.Document) *cleanplate.Video {
	thumbnail := MetaContent(doc, "og:video:image")
	for _, key := range []string{"og:video:secure_url", "og:video:url", "og:video"} {
		for _, src := range MetaContents(doc, key) {
			if v := cleanplate.NormalizeVideo(src, thumbnail); v != nil {
				return v
			}
		}
	}

	var video *cleanplate.Video
	doc.FindMatcher(videoIframe).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := s.AttrOr("src", s.AttrOr("data-src", ""))
		video = cleanplate.NormalizeVideo(src, "")
		return video == nil
	})
	return video
}
