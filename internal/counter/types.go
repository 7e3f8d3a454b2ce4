package counter

import "time"

// Observation is a single monthly usage measurement for a journal
type Observation struct {
	Month  time.Time // first of month, UTC
	Metric string
	Count  int
}

// Journal is one publication's row in a usage report
type Journal struct {
	Title        string
	ISSN         string // online ISSN preferred, print ISSN as fallback
	Observations []Observation
}

// Report is the parsed content of one usage report file
type Report struct {
	SourcePath string
	Journals   []Journal
}
