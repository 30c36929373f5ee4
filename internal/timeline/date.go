// Package timeline provides date normalization for career history data.
// Resume dates arrive in many shapes ("2020-01", "Jan 2020", "01/2020",
// "2020", "Present"); everything is reduced to a year/month pair so the
// analytics layer can do arithmetic without caring about the source format.
package timeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// YearMonth is a calendar month. The zero value means "no usable date".
type YearMonth struct {
	Year  int
	Month int
}

// openMarkers are end-date strings that mean the role is still held.
var openMarkers = map[string]bool{
	"present": true,
	"current": true,
	"now":     true,
	"ongoing": true,
}

var bareYearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// layouts tried in order; year-only last so "2020-01" never parses as "2020".
var layouts = []string{"2006-01", "2006/01", "01/2006", "Jan 2006", "January 2006", "2006-01-02", "2006"}

// Parse normalizes a raw date token. It reports present=true for open-ended
// markers ("present", "current", "now", "ongoing", any case). Tokens that
// cannot be parsed return the zero YearMonth with present=false; parsing
// never fails with an error.
func Parse(raw string) (ym YearMonth, present bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return YearMonth{}, false
	}
	if openMarkers[strings.ToLower(s)] {
		return YearMonth{}, true
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			m := int(t.Month())
			if layout == "2006" {
				m = 1
			}
			return YearMonth{Year: t.Year(), Month: m}, false
		}
	}

	// Last resort: any 4-digit year embedded in the token ("circa 2019").
	if match := bareYearRe.FindString(s); match != "" {
		year, _ := strconv.Atoi(match)
		return YearMonth{Year: year, Month: 1}, false
	}

	return YearMonth{}, false
}

// IsZero reports whether the value carries no usable date.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0
}

// Time returns the first day of the month in UTC.
func (ym YearMonth) Time() time.Time {
	return time.Date(ym.Year, time.Month(ym.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Of truncates a time to its year and month.
func Of(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// MonthsUntil returns the number of whole months from ym to other.
// Negative when other is earlier.
func (ym YearMonth) MonthsUntil(other YearMonth) int {
	return (other.Year-ym.Year)*12 + (other.Month - ym.Month)
}

// DaysUntil approximates the day distance between the two month starts.
func (ym YearMonth) DaysUntil(other YearMonth) int {
	return int(other.Time().Sub(ym.Time()).Hours() / 24)
}

func (ym YearMonth) String() string {
	if ym.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// MarshalJSON encodes as "YYYY-MM", or null when no date is known.
func (ym YearMonth) MarshalJSON() ([]byte, error) {
	if ym.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ym.String() + `"`), nil
}

// UnmarshalJSON accepts null, "", and any token Parse understands.
// Open-ended markers decode to the zero value; the caller tracks currency
// with its own flag.
func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*ym = YearMonth{}
		return nil
	}
	parsed, _ := Parse(s)
	*ym = parsed
	return nil
}
