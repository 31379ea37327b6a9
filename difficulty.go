package cleanplate

import "regexp"

// Difficulty is a coarse effort bucket.
type Difficulty string

// Difficulty constants.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// difficultyRules are checked in order; the first match wins.
var difficultyRules = []struct {
	level Difficulty
	match *regexp.Regexp
}{
	{DifficultyEasy, regexp.MustCompile(`(?i)\b(easy|simple|beginners?|basic|effortless|quick|no[\s-]fuss)\b`)},
	{DifficultyMedium, regexp.MustCompile(`(?i)\b(medium|intermediate|moderate(ly)?|average)\b`)},
	{DifficultyHard, regexp.MustCompile(`(?i)\b(hard|difficult|advanced|challenging|expert|complex)\b`)},
}

// ParseDifficulty buckets free text into Easy, Medium or Hard. Text that
// matches no bucket yields "".
func ParseDifficulty(text string) Difficulty {
	text = CleanText(text)
	for _, rule := range difficultyRules {
		if rule.match.MatchString(text) {
			return rule.level
		}
	}
	return ""
}
