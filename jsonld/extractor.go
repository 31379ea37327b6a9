// Package jsonld extracts recipes from schema.org structured data embedded
// in a page as JSON-LD.
package jsonld

import (
	"math"
	"mime"
	"strings"

	"github.com/AdamMoses-GitHub/cleanplate"
	cpquery "github.com/AdamMoses-GitHub/cleanplate/goquery"
	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
)

// Ensure Extractor implements cleanplate.RecipeExtractor.
var _ cleanplate.RecipeExtractor = (*Extractor)(nil)

const ldJSONType = "application/ld+json"

// nutritionKeys maps schema.org NutritionInformation properties to the
// canonical names stored on a recipe.
var nutritionKeys = map[string]string{
	"calories":              "calories",
	"fatContent":            "fat",
	"saturatedFatContent":   "saturatedFat",
	"unsaturatedFatContent": "unsaturatedFat",
	"transFatContent":       "transFat",
	"cholesterolContent":    "cholesterol",
	"sodiumContent":         "sodium",
	"carbohydrateContent":   "carbohydrates",
	"fiberContent":          "fiber",
	"sugarContent":          "sugar",
	"proteinContent":        "protein",
	"servingSize":           "servingSize",
}

// Extractor reads the first schema.org Recipe found in a page's JSON-LD
// blocks.
type Extractor struct {
	Filter  *cleanplate.IngredientFilter
	Images  cleanplate.ImageRanker
	Authors cleanplate.AuthorFinder
}

// NewExtractor creates an Extractor using the given noise filter.
func NewExtractor(filter *cleanplate.IngredientFilter) *Extractor {
	return &Extractor{
		Filter:  filter,
		Images:  cpquery.NewImageRanker(),
		Authors: cpquery.NewAuthorFinder(),
	}
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string {
	return "structured-data"
}

// Extract returns the normalization of the first Recipe node in document
// order, or nil if the page has none. Malformed blocks are skipped.
func (e *Extractor) Extract(html string, pageURL string) *cleanplate.Recipe {
	doc, err := cpquery.Parse(html)
	if err != nil {
		return nil
	}
	node := FindRecipe(doc)
	if node == nil {
		return nil
	}
	return e.normalize(node, doc, html, pageURL)
}

// FindRecipe returns the first Recipe node across all JSON-LD blocks.
func FindRecipe(doc *goquery.Document) map[string]any {
	var found map[string]any
	doc.Find("script[type]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !isLDJSON(s.AttrOr("type", "")) {
			return true
		}
		var v any
		if err := json.Unmarshal([]byte(scriptBody(s.Text())), &v); err != nil {
			return true
		}
		found = firstRecipe(v)
		return found == nil
	})
	return found
}

func isLDJSON(typ string) bool {
	mediaType, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return strings.EqualFold(strings.TrimSpace(typ), ldJSONType)
	}
	return mediaType == ldJSONType
}

// scriptBody strips the comment and CDATA wrappers some CMSes emit.
func scriptBody(s string) string {
	s = strings.TrimSpace(s)
	for _, pair := range [][2]string{{"<!--", "-->"}, {"<![CDATA[", "]]>"}, {"//<![CDATA[", "//]]>"}} {
		if strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			s = strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
		}
	}
	return s
}

// firstRecipe walks v in document order. Arrays and @graph are unwrapped;
// mainEntity is followed for pages that nest the recipe under a WebPage.
func firstRecipe(v any) map[string]any {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if r := firstRecipe(item); r != nil {
				return r
			}
		}
	case map[string]any:
		if hasType(t, "Recipe") {
			return t
		}
		for _, key := range []string{"@graph", "mainEntity"} {
			if r := firstRecipe(t[key]); r != nil {
				return r
			}
		}
	}
	return nil
}

func (e *Extractor) normalize(node map[string]any, doc *goquery.Document, html string, pageURL string) *cleanplate.Recipe {
	siteName := cpquery.SiteName(doc, pageURL)

	title := cleanplate.CleanText(text(node["name"]))
	if title == "" {
		title = cleanplate.CleanText(text(node["headline"]))
	}
	if title == "" {
		title = cleanplate.PlaceholderTitle
	}

	rawIngredients := node["recipeIngredient"]
	if rawIngredients == nil {
		rawIngredients = node["ingredients"]
	}
	ingredients := cleanplate.CleanList(texts(rawIngredients))
	for i, ing := range ingredients {
		ingredients[i] = cleanplate.FormatQuantities(ing)
	}
	instructions := cleanplate.CleanList(flattenInstructions(node["recipeInstructions"]))

	filter := e.Filter
	if filter == nil {
		filter = cleanplate.NewIngredientFilter(cleanplate.StrictnessBalanced)
	}
	recipe := &cleanplate.Recipe{Title: title}
	filter.Apply(recipe, ingredients, instructions)

	author := authorName(node["author"], siteName)
	if author == "" && e.Authors != nil {
		author = e.Authors.FindAuthor(html)
	}
	recipe.Source = cleanplate.Source{URL: pageURL, SiteName: siteName, Author: author}
	recipe.Metadata = e.metadata(node, html, pageURL)
	return recipe
}

func (e *Extractor) metadata(node map[string]any, html string, pageURL string) cleanplate.Metadata {
	m := cleanplate.Metadata{
		PrepTime:      cleanplate.FormatDuration(text(node["prepTime"])),
		CookTime:      cleanplate.FormatDuration(text(node["cookTime"])),
		TotalTime:     cleanplate.FormatDuration(text(node["totalTime"])),
		Servings:      cleanplate.CleanText(text(node["recipeYield"])),
		Description:   cleanplate.CleanText(text(node["description"])),
		Category:      cleanplate.CleanTaxonomy(splitTexts(node["recipeCategory"]), cleanplate.MaxCategories),
		Cuisine:       cleanplate.CleanTaxonomy(splitTexts(node["recipeCuisine"]), cleanplate.MaxCuisines),
		Keywords:      cleanplate.CleanTaxonomy(splitTexts(node["keywords"]), cleanplate.MaxKeywords),
		DietaryInfo:   cleanplate.NormalizeDiets(texts(node["suitableForDiet"])),
		Rating:        rating(node["aggregateRating"]),
		Nutrition:     nutrition(node["nutrition"]),
		DatePublished: cleanplate.NormalizeDate(text(node["datePublished"])),
		DateModified:  cleanplate.NormalizeDate(text(node["dateModified"])),
		Difficulty:    difficulty(node),
		Video:         video(node["video"]),
	}

	primary := imageURL(node["image"])
	if e.Images != nil {
		m.ImageCandidates = e.Images.Rank(html, pageURL, primary)
	}
	if len(m.ImageCandidates) > 0 {
		m.ImageURL = m.ImageCandidates[0].URL
	} else {
		m.ImageURL = primary
	}
	return m
}

// flattenInstructions reads plain strings, lists, HowToStep objects and
// HowToSection objects in document order. Strings holding several lines are
// split into one step per line.
func flattenInstructions(v any) []string {
	switch t := v.(type) {
	case string:
		var steps []string
		for _, line := range strings.Split(t, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				steps = append(steps, line)
			}
		}
		return steps
	case []any:
		var steps []string
		for _, item := range t {
			steps = append(steps, flattenInstructions(item)...)
		}
		return steps
	case map[string]any:
		if items, ok := t["itemListElement"]; ok {
			return flattenInstructions(items)
		}
		if s := text(t); s != "" {
			return []string{s}
		}
	}
	return nil
}

func imageURL(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if u := imageURL(item); u != "" {
				return u
			}
		}
	case map[string]any:
		for _, key := range []string{"url", "contentUrl", "@id"} {
			if u, ok := t[key].(string); ok && strings.TrimSpace(u) != "" {
				return strings.TrimSpace(u)
			}
		}
	}
	return ""
}

// rating reads an AggregateRating. The value is rescaled to 0-5 when the
// node declares another bestRating, and rounded to one decimal.
func rating(v any) *cleanplate.Rating {
	node := object(v)
	if node == nil {
		return nil
	}
	value, ok := number(node["ratingValue"])
	if !ok {
		return nil
	}
	if best, ok := number(node["bestRating"]); ok && best > 0 && best != 5 {
		value = value / best * 5
	}
	count, ok := number(node["ratingCount"])
	if !ok {
		count, ok = number(node["reviewCount"])
	}
	if !ok {
		return nil
	}

	r := &cleanplate.Rating{Value: math.Round(value*10) / 10, Count: int(count)}
	if !r.Valid() {
		return nil
	}
	return r
}

func nutrition(v any) cleanplate.Nutrition {
	node := object(v)
	if node == nil {
		return nil
	}
	n := cleanplate.Nutrition{}
	for key, name := range nutritionKeys {
		if s := cleanplate.CleanText(text(node[key])); s != "" {
			n[name] = s
		}
	}
	if len(n) < cleanplate.MinNutritionFields {
		return nil
	}
	return n
}

func difficulty(node map[string]any) cleanplate.Difficulty {
	for _, key := range []string{"difficulty", "educationalLevel"} {
		if d := cleanplate.ParseDifficulty(text(node[key])); d != "" {
			return d
		}
	}
	return ""
}

// video accepts a URL string, a list, or a VideoObject. Objects prefer
// embedUrl, then contentUrl, then url.
func video(v any) *cleanplate.Video {
	switch t := v.(type) {
	case string:
		return cleanplate.NormalizeVideo(t, "")
	case []any:
		for _, item := range t {
			if vid := video(item); vid != nil {
				return vid
			}
		}
		return nil
	}
	node := object(v)
	if node == nil {
		return nil
	}
	thumbnail := imageURL(node["thumbnailUrl"])
	for _, key := range []string{"embedUrl", "contentUrl", "url"} {
		if u := text(node[key]); u != "" {
			if vid := cleanplate.NormalizeVideo(u, thumbnail); vid != nil {
				return vid
			}
		}
	}
	return nil
}
