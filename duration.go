package cleanplate

import (
	"math"
	"strconv"
	"strings"

	"github.com/sosodev/duration"
)

// FormatDuration renders an ISO-8601 duration as a human-readable phrase:
// "PT1H30M" becomes "1 hour 30 minutes". Weeks fold into days, fractional
// units spill into the smaller ones and minutes or seconds overflowing
// their unit are carried upward. Strings that are not ISO-8601 durations
// are returned cleaned but otherwise unchanged.
func FormatDuration(s string) string {
	s = CleanText(s)
	if !strings.ContainsAny(s, "0123456789") {
		return s
	}
	d, err := duration.Parse(strings.ToUpper(s))
	if err != nil || d.Negative {
		return s
	}

	daySeconds := math.Round((d.Weeks*7 + d.Days) * 86400)
	days := int(daySeconds) / 86400
	rest := int(daySeconds)%86400 + int(math.Round(d.Hours*3600+d.Minutes*60+d.Seconds))
	hours := rest / 3600
	minutes := rest % 3600 / 60
	seconds := rest % 60

	var parts []string
	parts = appendUnit(parts, int(d.Years), "year")
	parts = appendUnit(parts, int(d.Months), "month")
	parts = appendUnit(parts, days, "day")
	parts = appendUnit(parts, hours, "hour")
	parts = appendUnit(parts, minutes, "minute")
	parts = appendUnit(parts, seconds, "second")
	if len(parts) == 0 {
		return "0 minutes"
	}
	return strings.Join(parts, " ")
}

func appendUnit(parts []string, n int, unit string) []string {
	switch {
	case n == 1:
		return append(parts, "1 "+unit)
	case n > 1:
		return append(parts, strconv.Itoa(n)+" "+unit+"s")
	}
	return parts
}
