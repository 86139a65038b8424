package domain

import "time"

// ReportEntry is a summarized document ready for display.
type ReportEntry struct {
	Title string
	Body  string
	URL   string
	Date  time.Time
}

// Section groups the entries of one source in discovery order.
type Section struct {
	Source  string
	Entries []ReportEntry
}

// Stage names the pipeline step that dropped a document.
type Stage string

const (
	StageListing   Stage = "listing"
	StageFetch     Stage = "fetch"
	StageSummarize Stage = "summarize"
)

// Skip records a document or source that did not make it into the report.
type Skip struct {
	Source string
	URL    string
	Stage  Stage
	Reason string
}

// Report is the grouped result of one run.
type Report struct {
	Cutoff      time.Time
	GeneratedAt time.Time
	Sections    []Section
	Skipped     []Skip
}

// NewReport creates one empty section per source name, keeping the given order.
func NewReport(cutoff, generatedAt time.Time, sources []string) Report {
	sections := make([]Section, 0, len(sources))
	for _, name := range sources {
		sections = append(sections, Section{Source: name, Entries: []ReportEntry{}})
	}
	return Report{Cutoff: cutoff, GeneratedAt: generatedAt, Sections: sections}
}

// Add appends an entry to the named section, creating it when missing.
func (r *Report) Add(source string, entry ReportEntry) {
	for i := range r.Sections {
		if r.Sections[i].Source == source {
			r.Sections[i].Entries = append(r.Sections[i].Entries, entry)
			return
		}
	}
	r.Sections = append(r.Sections, Section{Source: source, Entries: []ReportEntry{entry}})
}

// Group returns the entries of the named source.
func (r Report) Group(source string) ([]ReportEntry, bool) {
	for _, s := range r.Sections {
		if s.Source == source {
			return s.Entries, true
		}
	}
	return nil, false
}

// Sources lists section names in report order.
func (r Report) Sources() []string {
	names := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		names = append(names, s.Source)
	}
	return names
}

// Total counts entries over all sections.
func (r Report) Total() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Entries)
	}
	return n
}
