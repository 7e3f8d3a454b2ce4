package usage

import (
	"fmt"
	"log/slog"

	"usagecli/internal/counter"
)

// ReportParser is the aggregator's view of the report parsing collaborator
type ReportParser interface {
	Parse(path string) (*counter.Report, error)
}

// ParserFunc adapts a plain function to the ReportParser interface
type ParserFunc func(path string) (*counter.Report, error)

// Parse implements ReportParser
func (f ParserFunc) Parse(path string) (*counter.Report, error) {
	return f(path)
}

// Aggregate scans the given report files and accumulates monthly counts for
// every journal whose ISSN appears in the subscription map. Journals with no
// matching ISSN are out-of-subscription noise (trial access and the like) and
// are skipped. A parse failure aborts the run with the file name surfaced:
// this data feeds renewal decisions, so a silently partial total is worse
// than no total.
func Aggregate(journals map[string]string, paths []string, parser ReportParser, logger *slog.Logger) (Table, error) {
	table := NewTable()
	for _, path := range paths {
		report, err := parser.Parse(path)
		if err != nil {
			logger.Error("failed to parse usage report", slog.String("file", path), slog.String("error", err.Error()))
			return nil, fmt.Errorf("parsing usage report %s: %w", path, err)
		}

		matched := 0
		for _, journal := range report.Journals {
			title, ok := journals[journal.ISSN]
			if !ok {
				continue
			}
			matched++
			for _, obs := range journal.Observations {
				table.Add(title, obs.Month, obs.Count)
			}
		}

		logger.Info("aggregated usage report",
			slog.String("file", path),
			slog.Int("journals", len(report.Journals)),
			slog.Int("matched", matched))
	}
	return table, nil
}
