package goquery

import (
	"net/url"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/PuerkitoBio/goquery"
)

// Ensure ImageRanker implements cleanplate.ImageRanker.
var _ cleanplate.ImageRanker = (*ImageRanker)(nil)

// Fixed and base scores per source.
const (
	structuredImageScore = 100
	openGraphImageScore  = 90
	domImageBaseScore    = 50
	minDOMImageScore     = 40
)

var (
	filenameAllow = []string{"recipe", "food", "dish", "hero", "featured", "finished", "final", "plated", "main"}
	filenameDeny  = []string{"logo", "icon", "avatar", "sprite", "pixel", "badge", "banner", "ad", "ads",
		"spinner", "loader", "placeholder", "blank", "gravatar", "emoji", "button", "social", "share"}
	classAllow = []string{"wp-post-image", "recipe-image", "recipe-photo", "featured", "hero", "main-image", "attachment-full"}
	classDeny  = []string{"avatar", "logo", "icon", "author", "social", "sponsor", "advert", "thumbnail", "emoji"}
	altDeny    = []string{"logo", "icon", "avatar", "advertisement", "pixel"}
)

var wordSplitRe = regexp.MustCompile(`[^a-z0-9]+`)

// lazyAttrs mark images whose real source is swapped in by a script.
var lazyAttrs = []string{"data-src", "data-lazy-src", "data-original", "data-lazy"}

// sourceAttrs are read in order; lazy-load attributes win over a placeholder src.
var sourceAttrs = append(append([]string{}, lazyAttrs...), "src")

// ImageRanker scores the images of a page as candidate recipe photos.
type ImageRanker struct{}

// NewImageRanker creates a new ImageRanker.
func NewImageRanker() *ImageRanker {
	return &ImageRanker{}
}

// Rank collects images from every source, dedupes them by URL ignoring the
// query string and fragment, and returns at most three sorted strictly
// descending by score. A candidate scoring the same as the one ranked above
// it is dropped.
func (r *ImageRanker) Rank(html string, baseURL string, primary string) []cleanplate.ImageCandidate {
	doc, err := Parse(html)
	if err != nil {
		return nil
	}
	return rankImages(doc, baseURL, primary)
}

func rankImages(doc *goquery.Document, baseURL string, primary string) []cleanplate.ImageCandidate {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = &url.URL{}
	}

	set := newCandidateSet()
	if primary != "" {
		set.add(base, primary, structuredImageScore, cleanplate.ImageFromStructuredData, "")
	}
	for _, key := range []string{"og:image", "og:image:url", "og:image:secure_url"} {
		for _, src := range MetaContents(doc, key) {
			set.add(base, src, openGraphImageScore, cleanplate.ImageFromOpenGraph, "")
		}
	}
	recipeContainers(doc).Find("img").Each(func(_ int, img *goquery.Selection) {
		src := imageSource(img)
		if src == "" {
			return
		}
		score := scoreDOMImage(img, src)
		if score < minDOMImageScore {
			return
		}
		set.add(base, src, score, cleanplate.ImageFromDOM, cleanplate.CleanText(img.AttrOr("alt", "")))
	})

	return set.ranked()
}

// recipeContainers selects elements whose class or id mentions a recipe.
func recipeContainers(doc *goquery.Document) *goquery.Selection {
	return doc.Find("[class], [id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return hintMatches(s, "recipe")
	})
}

func imageSource(img *goquery.Selection) string {
	for _, attr := range sourceAttrs {
		if v := strings.TrimSpace(img.AttrOr(attr, "")); v != "" && !strings.HasPrefix(strings.ToLower(v), "data:") {
			return v
		}
	}
	return ""
}

func scoreDOMImage(img *goquery.Selection, src string) int {
	score := domImageBaseScore

	size := max(atoi(img.AttrOr("width", "")), atoi(img.AttrOr("height", "")))
	switch {
	case size >= 600:
		score += 20
	case size >= 300:
		score += 10
	}

	words := filenameWords(src)
	if containsAny(words, filenameAllow) {
		score += 15
	}
	if containsAny(words, filenameDeny) {
		score -= 30
	}

	alt := strings.ToLower(cleanplate.CleanText(img.AttrOr("alt", "")))
	if runeCount(alt) >= 10 && !containsSubstring(alt, altDeny) {
		score += 10
	}

	class := strings.ToLower(img.AttrOr("class", ""))
	if isLazy(img, class) {
		score += 5
	}
	if containsSubstring(class, classAllow) {
		score += 10
	}
	if containsSubstring(class, classDeny) {
		score -= 15
	}

	return max(0, min(100, score))
}

func isLazy(img *goquery.Selection, class string) bool {
	if strings.EqualFold(img.AttrOr("loading", ""), "lazy") || strings.Contains(class, "lazy") {
		return true
	}
	for _, attr := range lazyAttrs {
		if _, ok := img.Attr(attr); ok {
			return true
		}
	}
	return false
}

// filenameWords splits the last path segment of src into lower-case words.
func filenameWords(src string) []string {
	p := src
	if u, err := url.Parse(src); err == nil {
		p = u.Path
	}
	return wordSplitRe.Split(strings.ToLower(path.Base(p)), -1)
}

func containsAny(words, list []string) bool {
	for _, w := range words {
		for _, l := range list {
			if w == l {
				return true
			}
		}
	}
	return false
}

func containsSubstring(s string, list []string) bool {
	for _, l := range list {
		if strings.Contains(s, l) {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	return n
}

// candidateSet dedupes image candidates, keeping the best score per URL.
type candidateSet struct {
	index map[string]int
	list  []cleanplate.ImageCandidate
}

func newCandidateSet() *candidateSet {
	return &candidateSet{index: make(map[string]int)}
}

func (c *candidateSet) add(base *url.URL, src string, score int, source cleanplate.ImageSource, alt string) {
	resolved, key := resolveImageURL(base, src)
	if resolved == "" {
		return
	}
	if i, ok := c.index[key]; ok {
		if score > c.list[i].Score {
			c.list[i] = cleanplate.ImageCandidate{URL: resolved, Score: score, Source: source, Alt: alt}
		}
		return
	}
	c.index[key] = len(c.list)
	c.list = append(c.list, cleanplate.ImageCandidate{URL: resolved, Score: score, Source: source, Alt: alt})
}

func (c *candidateSet) ranked() []cleanplate.ImageCandidate {
	sorted := make([]cleanplate.ImageCandidate, len(c.list))
	copy(sorted, c.list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	out := make([]cleanplate.ImageCandidate, 0, cleanplate.MaxImageCandidates)
	for _, cand := range sorted {
		if len(out) == cleanplate.MaxImageCandidates {
			break
		}
		if len(out) > 0 && out[len(out)-1].Score == cand.Score {
			continue
		}
		out = append(out, cand)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// resolveImageURL resolves src against base, handling protocol-relative,
// absolute-path and relative-path references. It returns the absolute URL
// and its dedup key (the URL without query and fragment), or "" if src
// does not resolve to an http(s) URL.
func resolveImageURL(base *url.URL, src string) (string, string) {
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return "", ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme == "" && strings.HasPrefix(src, "//") {
		resolved.Scheme = "https"
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", ""
	}
	if resolved.Host == "" {
		return "", ""
	}

	key := *resolved
	key.RawQuery = ""
	key.ForceQuery = false
	key.Fragment = ""
	key.RawFragment = ""
	return resolved.String(), key.String()
}
