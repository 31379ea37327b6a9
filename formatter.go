package cleanplate

import (
	"fmt"
	"strings"
	"time"
)

// FormatConfidenceLine renders the debug line written once per extraction:
//
//	[ts] CONFIDENCE | domain | Phase N | Score: S/100 (LEVEL) | phase=40/40, title=10/10, ...
//
// Factors appear in FactorOrder. Counts and applied adjustments are shown in
// parentheses after a factor's points.
func FormatConfidenceLine(ts time.Time, domain string, phase Phase, result ConfidenceResult) string {
	parts := make([]string, 0, len(FactorOrder))
	for _, name := range FactorOrder {
		f, ok := result.Factors[name]
		if !ok {
			continue
		}
		part := fmt.Sprintf("%s=%d/%d", name, f.Points, f.Max)
		if extra := factorExtra(name, f); extra != "" {
			part += "(" + extra + ")"
		}
		parts = append(parts, part)
	}

	return fmt.Sprintf("[%s] CONFIDENCE | %s | Phase %d | Score: %d/100 (%s) | %s",
		ts.UTC().Format(time.RFC3339),
		domain,
		phase,
		result.Score,
		strings.ToUpper(string(result.Level)),
		strings.Join(parts, ", "),
	)
}

// FormatRejectionLine renders the debug line written for each item the
// noise filter dropped.
func FormatRejectionLine(ts time.Time, r Rejection) string {
	return fmt.Sprintf("[%s] FILTER | %s | rejected %q | %s",
		ts.UTC().Format(time.RFC3339), r.Kind, r.Text, r.Reason)
}

func factorExtra(name string, f Factor) string {
	switch name {
	case FactorIngredients, FactorInstructions:
		return fmt.Sprintf("%v items", f.Context["count"])
	case FactorMetadata:
		return fmt.Sprintf("%v fields", f.Context["count"])
	case FactorQuality:
		if applied, ok := f.Context["adjustments"].([]string); ok {
			return strings.Join(applied, ",")
		}
	}
	return ""
}
