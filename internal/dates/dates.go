// Package dates turns the date strings found on government listing pages
// into civil dates (UTC midnight).
package dates

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Hint selects the family of layouts tried for a raw value.
type Hint int

const (
	// Numeric covers DD/MM/YYYY and DD-MM-YYYY.
	Numeric Hint = iota
	// Verbose covers "January 2, 2006", "2 January 2006" and abbreviated months.
	Verbose
)

var layouts = map[Hint][]string{
	Numeric: {"2/1/2006", "2-1-2006"},
	Verbose: {"January 2, 2006", "Jan 2, 2006", "January 2 2006", "Jan 2 2006", "2 January 2006", "2 Jan 2006", "2-1-2006"},
}

var (
	filenameExpr = regexp.MustCompile(`(\d{1,2})\s*([A-Za-z]+)\s*(\d{4})`)
	ordinalExpr  = regexp.MustCompile(`(?i)(\d+)(st|nd|rd|th)`)
	pdfExtExpr   = regexp.MustCompile(`(?i)\.pdf$`)
)

// Parse tries every layout of the hint against the trimmed value.
func Parse(raw string, hint Hint) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts[hint] {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FromFilename extracts a date embedded in a PDF file name such as
// QCO_LaboratoryGlassware_24January2024.pdf. Full URLs are accepted.
func FromFilename(raw string) (time.Time, bool) {
	name := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		name = u.EscapedPath()
	}
	name = path.Base(name)
	name = pdfExtExpr.ReplaceAllString(name, "")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	} else {
		name = strings.ReplaceAll(name, "%20", " ")
	}

	for _, m := range filenameExpr.FindAllStringSubmatch(name, -1) {
		candidate := m[1] + " " + m[2] + " " + m[3]
		for _, layout := range []string{"2 January 2006", "2 Jan 2006"} {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// CleanMessy normalises free-text dates like "15th Jan. 2024" into "15 Jan 2024".
func CleanMessy(raw string) string {
	cleaned := ordinalExpr.ReplaceAllString(raw, "$1")
	cleaned = strings.NewReplacer(".", " ", ",", " ").Replace(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return cases.Title(language.English).String(cleaned)
}

// Day truncates t to its calendar date in t's location, expressed as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// OnOrAfter is the cutoff check shared by every adapter; equality is inclusive.
func OnOrAfter(date, cutoff time.Time) bool {
	return !Day(date).Before(Day(cutoff))
}
