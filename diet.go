package cleanplate

import (
	"regexp"
	"strings"
)

var schemaPrefixRe = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?schema\.org/`)

// dietCodes maps schema.org RestrictedDiet values to display labels.
var dietCodes = map[string]string{
	"DiabeticDiet":   "Diabetic",
	"GlutenFreeDiet": "Gluten-Free",
	"HalalDiet":      "Halal",
	"HinduDiet":      "Hindu",
	"KosherDiet":     "Kosher",
	"LowCalorieDiet": "Low-Calorie",
	"LowFatDiet":     "Low-Fat",
	"LowLactoseDiet": "Low-Lactose",
	"LowSaltDiet":    "Low-Sodium",
	"VeganDiet":      "Vegan",
	"VegetarianDiet": "Vegetarian",
}

// dietRule recognizes one diet in free text.
type dietRule struct {
	label string
	match *regexp.Regexp
}

var dietRules = []dietRule{
	{"Vegan", regexp.MustCompile(`(?i)\bvegan\b`)},
	{"Vegetarian", regexp.MustCompile(`(?i)\b(vegetarian|veggie)\b`)},
	{"Keto", regexp.MustCompile(`(?i)\bketo(genic)?\b`)},
	{"Paleo", regexp.MustCompile(`(?i)\bpaleo\b`)},
	{"Whole30", regexp.MustCompile(`(?i)\bwhole\s*30\b`)},
	{"Gluten-Free", regexp.MustCompile(`(?i)\bgluten[\s-]*free\b`)},
	{"Dairy-Free", regexp.MustCompile(`(?i)\bdairy[\s-]*free\b`)},
	{"Nut-Free", regexp.MustCompile(`(?i)\bnut[\s-]*free\b`)},
	{"Sugar-Free", regexp.MustCompile(`(?i)\bsugar[\s-]*free\b`)},
	{"Low-Carb", regexp.MustCompile(`(?i)\blow[\s-]*carb(s|ohydrate)?\b`)},
	{"Low-Fat", regexp.MustCompile(`(?i)\blow[\s-]*fat\b`)},
	{"Low-Calorie", regexp.MustCompile(`(?i)\blow[\s-]*calorie\b`)},
	{"Low-Sodium", regexp.MustCompile(`(?i)\blow[\s-]*(sodium|salt)\b`)},
	{"Pescatarian", regexp.MustCompile(`(?i)\bpesc(atarian|etarian)\b`)},
	{"Halal", regexp.MustCompile(`(?i)\bhalal\b`)},
	{"Kosher", regexp.MustCompile(`(?i)\bkosher\b`)},
	{"Diabetic", regexp.MustCompile(`(?i)\bdiabetic\b`)},
}

const (
	minDietLen = 3
	maxDietLen = 30
)

// NormalizeDiets maps raw diet values to display labels. Each value goes
// through a cascade: schema.org code, then free-text patterns (a value may
// name several diets), then title-casing of short unrecognized values.
// Anything else is dropped. The result is deduplicated.
func NormalizeDiets(values []string) []string {
	var labels []string
	for _, v := range values {
		labels = append(labels, normalizeDiet(v)...)
	}
	labels = DedupeFold(labels)
	if len(labels) == 0 {
		return nil
	}
	return labels
}

func normalizeDiet(raw string) []string {
	v := schemaPrefixRe.ReplaceAllString(CleanText(raw), "")
	if v == "" {
		return nil
	}
	if label, ok := dietCodes[v]; ok {
		return []string{label}
	}

	var matched []string
	for _, rule := range dietRules {
		if rule.match.MatchString(v) {
			matched = append(matched, rule.label)
		}
	}
	if len(matched) > 0 {
		return matched
	}

	if n := runeLen(v); n >= minDietLen && n <= maxDietLen && !strings.ContainsAny(v, "/:") {
		return []string{TitleCase(v)}
	}
	return nil
}
