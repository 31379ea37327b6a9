package cleanplate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Strictness is the minimum ingredient score an item needs to be kept.
type Strictness int

// Strictness levels.
const (
	StrictnessLenient  Strictness = 0
	StrictnessBalanced Strictness = 2
	StrictnessStrict   Strictness = 5
)

// ParseStrictness parses "lenient", "balanced" or "strict".
func ParseStrictness(s string) (Strictness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lenient":
		return StrictnessLenient, nil
	case "", "balanced":
		return StrictnessBalanced, nil
	case "strict":
		return StrictnessStrict, nil
	}
	return 0, Errorf(EINVALID, "unknown strictness %q (want lenient, balanced or strict)", s)
}

func (s Strictness) String() string {
	switch s {
	case StrictnessLenient:
		return "lenient"
	case StrictnessBalanced:
		return "balanced"
	case StrictnessStrict:
		return "strict"
	}
	return fmt.Sprintf("Strictness(%d)", int(s))
}

// ItemKind distinguishes the two recipe lists.
type ItemKind string

// ItemKind constants.
const (
	KindIngredient  ItemKind = "ingredient"
	KindInstruction ItemKind = "instruction"
)

// Rejection records one item dropped by the noise filter.
type Rejection struct {
	Kind   ItemKind
	Text   string
	Reason string
}

// FilterResult is the outcome of filtering one list.
type FilterResult struct {
	Kept     []string
	Rejected []Rejection
}

// Rejection reasons.
const (
	ReasonNavigation     = "navigation or UI text"
	ReasonSectionHeader  = "section header"
	ReasonTooShort       = "too short"
	ReasonAllCapsWord    = "single all-caps word"
	ReasonLowScore       = "low ingredient score"
	ReasonNotInstruction = "not an instruction"
)

// Minimum lengths in characters.
const (
	MinIngredientLen  = 3
	MinInstructionLen = 10
)

var navigationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(print|share|save|pin|email|tweet|rate|review|jump to|skip to|go to|back to|scroll to)(\s+(this|the|it|recipe|now|here|video|comments?|top))*\s*[!.:]*$`),
	regexp.MustCompile(`(?i)\b(print(able)?|save|share) (this |the )?(recipe|version|page)\b`),
	regexp.MustCompile(`(?i)\bjump to (the )?(recipe|video|comments?)\b`),
	regexp.MustCompile(`(?i)\b(log ?in|sign ?in|sign ?up|log ?out|my account|create an account|subscribe|newsletter|unsubscribe)\b`),
	regexp.MustCompile(`(?i)\b(facebook|twitter|instagram|pinterest|tiktok|whatsapp|linkedin|youtube channel)\b`),
	regexp.MustCompile(`(?i)\b(cookies? (policy|settings|consent|preferences)|we use cookies|accept (all )?cookies|privacy policy|terms of (use|service)|all rights reserved|copyright)\b|©`),
	regexp.MustCompile(`(?i)^(advertisement|sponsored|ad|ads)$`),
	regexp.MustCompile(`(?i)\b(read more|see more|show more|load more|view all|click here|learn more|tap here)\b`),
	regexp.MustCompile(`(?i)\b(leave a (comment|review)|add a comment|\d+ comments|comments? \(\d+\)|rate this recipe|reviews? \(\d+\))\b`),
	regexp.MustCompile(`(?i)\b(shop now|buy now|affiliate links?|as an amazon associate)\b`),
}

var sectionHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(ingredients?|instructions?|directions?|method|preparation|steps?|notes?|recipe notes|tips?|nutrition( facts| information| info)?|equipment|servings?|yield|prep time|cook time|total time|you will need)\s*:?$`),
	regexp.MustCompile(`(?i)^for the [\p{L}\s]{1,30}:$`),
	regexp.MustCompile(`(?i)^(step|part)\s*\d+\s*:?$`),
}

var browseVerbRe = regexp.MustCompile(`(?i)^(click|tap|view|see|browse|visit|check out|read|watch|shop|discover|explore|follow|download|get)\b`)

var digitRe = regexp.MustCompile(`\d`)

// filterRule is one step of the classification cascade. The first rule that
// rejects an item decides; an item no rule rejects is kept.
type filterRule struct {
	reason string
	reject func(f *IngredientFilter, kind ItemKind, text string) bool
}

var filterRules = []filterRule{
	{ReasonNavigation, func(_ *IngredientFilter, _ ItemKind, text string) bool {
		return matchesAny(navigationPatterns, text)
	}},
	{ReasonSectionHeader, func(_ *IngredientFilter, _ ItemKind, text string) bool {
		return matchesAny(sectionHeaderPatterns, text)
	}},
	{ReasonTooShort, func(_ *IngredientFilter, kind ItemKind, text string) bool {
		if kind == KindInstruction {
			return runeLen(text) < MinInstructionLen
		}
		return runeLen(text) < MinIngredientLen
	}},
	{ReasonAllCapsWord, func(_ *IngredientFilter, _ ItemKind, text string) bool {
		return isSingleCapsWord(text)
	}},
	{ReasonLowScore, func(f *IngredientFilter, kind ItemKind, text string) bool {
		return kind == KindIngredient && IngredientScore(text) < int(f.Strictness)
	}},
	{ReasonNotInstruction, func(_ *IngredientFilter, kind ItemKind, text string) bool {
		return kind == KindInstruction && !HasCookingVerb(text) && !looksLikeSentence(text)
	}},
}

// IngredientFilter separates real recipe lines from page chrome that was
// scraped along with them.
type IngredientFilter struct {
	Strictness Strictness
}

// NewIngredientFilter returns a filter with the given strictness.
func NewIngredientFilter(strictness Strictness) *IngredientFilter {
	return &IngredientFilter{Strictness: strictness}
}

// Filter classifies every item independently and returns both the kept
// items, in their original order, and the rejections with their reasons.
func (f *IngredientFilter) Filter(kind ItemKind, items []string) FilterResult {
	result := FilterResult{Kept: make([]string, 0, len(items))}
	for _, item := range items {
		text := strings.TrimSpace(item)
		if reason, rejected := f.classify(kind, text); rejected {
			result.Rejected = append(result.Rejected, Rejection{Kind: kind, Text: text, Reason: reason})
			continue
		}
		result.Kept = append(result.Kept, text)
	}
	return result
}

// FilterIngredients returns the ingredients that survive the cascade.
func (f *IngredientFilter) FilterIngredients(items []string) []string {
	return f.Filter(KindIngredient, items).Kept
}

// FilterInstructions returns the instructions that survive the cascade.
func (f *IngredientFilter) FilterInstructions(items []string) []string {
	return f.Filter(KindInstruction, items).Kept
}

// Apply filters both raw lists into r and records the bookkeeping the
// confidence scorer and the debug log read.
func (f *IngredientFilter) Apply(r *Recipe, ingredients, instructions []string) {
	ing := f.Filter(KindIngredient, ingredients)
	ins := f.Filter(KindInstruction, instructions)

	r.Ingredients = ing.Kept
	r.Instructions = ins.Kept
	r.Quality = Quality{
		IngredientsRaw:   len(ingredients),
		IngredientsKept:  len(ing.Kept),
		InstructionsRaw:  len(instructions),
		InstructionsKept: len(ins.Kept),
		Rejected:         append(ing.Rejected, ins.Rejected...),
	}
}

func (f *IngredientFilter) classify(kind ItemKind, text string) (string, bool) {
	for _, rule := range filterRules {
		if rule.reject(f, kind, text) {
			return rule.reason, true
		}
	}
	return "", false
}

// IngredientScore is the signed plausibility score of an ingredient line.
func IngredientScore(text string) int {
	score := 0
	if ingredientSignalRe.MatchString(text) {
		score += 3
	}
	if digitRe.MatchString(text) {
		score += 2
	}
	if strings.Contains(text, ",") {
		score++
	}
	if n := runeLen(text); n >= 10 && n <= 200 {
		score++
	}
	if runeLen(text) > 5 && isUpper(text) {
		score -= 3
	}
	if browseVerbRe.MatchString(text) {
		score -= 2
	}
	return score
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func isSingleCapsWord(text string) bool {
	return len(strings.Fields(text)) == 1 && isUpper(text)
}

// isUpper reports whether text has letters and none of them is lower case.
func isUpper(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func looksLikeSentence(text string) bool {
	for _, r := range text {
		if unicode.IsUpper(r) {
			return true
		}
		break
	}
	return strings.HasSuffix(text, ".") || len(strings.Fields(text)) >= 3
}
