package cleanplate

import (
	"math"
	"regexp"
	"strconv"
)

// fractionTolerance is how far a decimal may sit from a kitchen fraction
// and still be rendered as that fraction.
const fractionTolerance = 0.02

var kitchenFractions = []struct {
	value float64
	text  string
}{
	{1.0 / 8, "1/8"},
	{1.0 / 4, "1/4"},
	{1.0 / 3, "1/3"},
	{3.0 / 8, "3/8"},
	{1.0 / 2, "1/2"},
	{5.0 / 8, "5/8"},
	{2.0 / 3, "2/3"},
	{3.0 / 4, "3/4"},
	{7.0 / 8, "7/8"},
}

var decimalRe = regexp.MustCompile(`\d*\.\d+`)

// FormatQuantities rewrites decimal quantities in an ingredient line as
// kitchen fractions: "0.5 cups" becomes "1/2 cups", "1.25" becomes "1 1/4".
// "2.0" becomes "2". Decimals that are part of a longer dotted token
// (versions, dates) and decimals with no close fraction are left as they
// are, including values just off a whole number such as "0.99".
func FormatQuantities(line string) string {
	matches := decimalRe.FindAllStringIndex(line, -1)
	if matches == nil {
		return line
	}

	out := make([]byte, 0, len(line))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && (line[start-1] == '.' || line[start-1] == ',' || isDigit(line[start-1])) {
			continue
		}
		if end < len(line) && (line[end] == '.' && end+1 < len(line) && isDigit(line[end+1])) {
			continue
		}
		formatted, ok := decimalToFraction(line[start:end])
		if !ok {
			continue
		}
		out = append(out, line[last:start]...)
		out = append(out, formatted...)
		last = end
	}
	out = append(out, line[last:]...)
	return string(out)
}

func decimalToFraction(s string) (string, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return "", false
	}

	whole := math.Floor(v)
	frac := v - whole

	if frac == 0 && whole > 0 {
		return strconv.Itoa(int(whole)), true
	}

	for _, f := range kitchenFractions {
		if math.Abs(frac-f.value) <= fractionTolerance {
			if whole == 0 {
				return f.text, true
			}
			return strconv.Itoa(int(whole)) + " " + f.text, true
		}
	}
	return "", false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
